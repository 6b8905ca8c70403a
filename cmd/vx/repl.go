package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/oarkflow/log"

	"vx/config"
	"vx/interpreter"
	"vx/lexer"
)

func runREPL(cfg *config.Config, logger *log.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "vx> ",
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("vx REPL. :help for commands, :quit to exit.")
	fmt.Println("Blocks opened with 'start' continue until their 'end'.")
	fmt.Println()

	// One runtime for the whole session: variables, functions and modules persist.
	newSession := func() *interpreter.Runtime { return newRuntime(cfg, logger, os.Stdout) }
	r := &repl{session: newSession(), fresh: newSession}

	for {
		rl.SetPrompt(replPrompt(r.depth))

		line, err := rl.Readline()

		// Ctrl+C
		if err == readline.ErrInterrupt {
			if r.buf.Len() > 0 {
				r.clear()
				fmt.Println("^C (buffer cleared)")
			}
			continue
		}

		// Ctrl+D
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		trim := strings.TrimSpace(line)

		// Commands only when not buffering a block.
		if r.buf.Len() == 0 && strings.HasPrefix(trim, ":") {
			quit, cmdErr := r.command(trim)
			if cmdErr != nil {
				fmt.Fprintln(os.Stderr, cmdErr)
			}
			if quit {
				return nil
			}
			continue
		}

		r.buf.WriteString(line)
		r.buf.WriteString("\n")
		r.depth = updateDepth(r.depth, trim)

		if r.pending() {
			continue
		}

		src := r.buf.String()
		r.clear()
		if strings.TrimSpace(src) == "" {
			continue
		}
		r.chunk++
		if err := compileAndRunWith(r.session, fmt.Sprintf("<repl:%d>", r.chunk), src); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

type repl struct {
	session *interpreter.Runtime
	fresh   func() *interpreter.Runtime
	buf     strings.Builder
	depth   int
	chunk   int
}

func (r *repl) clear() {
	r.buf.Reset()
	r.depth = 0
}

// pending reports whether the buffered input is still incomplete: an open
// block, or a set value with an open bracket or string.
func (r *repl) pending() bool {
	if r.depth > 0 {
		return true
	}
	depth, inString := lexer.Depth(r.buf.String())
	return depth > 0 || inString
}

func replPrompt(depth int) string {
	if depth > 0 {
		return "... "
	}
	return "vx> "
}

// command runs a REPL command and reports whether the session should end.
func (r *repl) command(cmd string) (bool, error) {
	switch {
	case cmd == ":q" || cmd == ":quit" || cmd == ":exit":
		return true, nil

	case cmd == ":h" || cmd == ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help              Show this help")
		fmt.Println("  :quit              Exit the REPL")
		fmt.Println("  :load <file>       Run a file in this session")
		fmt.Println("  :reset             Start a fresh session")
		fmt.Println("  :vars              Show variables")
		fmt.Println("  :funcs             Show user-defined functions")
		fmt.Println("  :modules           Show imported modules")
		fmt.Println("  :natives           Show native functions")
		fmt.Println()
		fmt.Println("Relative imports resolve from the current directory.")
		return false, nil

	case strings.HasPrefix(cmd, ":load"):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, ":load"))
		if path == "" {
			return false, fmt.Errorf("usage: :load <file.vx>")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return false, compileAndRunWith(r.session, path, string(b))

	case cmd == ":reset":
		r.clear()
		r.session = r.fresh()
		fmt.Println("(session reset)")
		return false, nil

	case cmd == ":vars":
		globs := r.session.Globals()
		if len(globs) == 0 {
			fmt.Println("(no variables)")
			return false, nil
		}
		keys := make([]string, 0, len(globs))
		for k := range globs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s = %s\n", k, globs[k].Repr())
		}
		return false, nil

	case cmd == ":funcs":
		names := r.session.FuncNames()
		if len(names) == 0 {
			fmt.Println("(no user functions)")
			return false, nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return false, nil

	case cmd == ":modules":
		aliases := r.session.ModuleAliases()
		loading, loaded := r.session.ModulesSnapshot()
		if len(aliases) == 0 && len(loaded) == 0 {
			fmt.Println("(no modules imported)")
			return false, nil
		}
		keys := make([]string, 0, len(aliases))
		for k := range aliases {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s -> %s\n", k, filepath.Clean(aliases[k]))
		}
		for _, p := range loaded {
			fmt.Printf("  loaded  %s\n", filepath.Clean(p))
		}
		for _, p := range loading {
			fmt.Printf("  loading %s\n", filepath.Clean(p))
		}
		return false, nil

	case cmd == ":natives":
		fmt.Println(strings.Join(r.session.Natives(), " "))
		return false, nil

	default:
		fmt.Println("Unknown command. Try :help")
		return false, nil
	}
}

func updateDepth(depth int, trimmed string) int {
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return depth
	}

	if isBlockOpener(trimmed) {
		return depth + 1
	}

	if trimmed == "end" && depth > 0 {
		return depth - 1
	}

	return depth
}

func isBlockOpener(line string) bool {
	line = strings.TrimSpace(lexer.StripComment(line))
	return line == "start" || strings.HasSuffix(line, " start")
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oarkflow/log"
	"github.com/urfave/cli/v2"

	"vx/config"
	"vx/interpreter"
	"vx/parser"
)

// settings resolves configuration: defaults, then the config file, then
// flags and environment.
func settings(c *cli.Context) (*config.Config, *log.Logger, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	cfg.ModulePaths = append(cfg.ModulePaths, c.StringSlice("module-path")...)

	logger := &log.Logger{
		Level:  log.ParseLevel(cfg.LogLevel),
		Writer: &log.IOWriter{Writer: os.Stderr},
	}
	return cfg, logger, nil
}

func newRuntime(cfg *config.Config, logger *log.Logger, out io.Writer) *interpreter.Runtime {
	return interpreter.New(
		interpreter.WithOutput(out),
		interpreter.WithLogger(logger),
		interpreter.WithMaxCallDepth(cfg.MaxCallDepth),
		interpreter.WithModulePaths(cfg.ModulePaths...),
		interpreter.WithExtension(cfg.Extension),
		interpreter.WithJoinedResults(cfg.JoinedResults),
	)
}

// compileAndRunWith runs code using an existing runtime.
// This is what makes the REPL stateful across inputs.
func compileAndRunWith(rt *interpreter.Runtime, filename, src string) error {
	stmts, err := parser.ParseProgram(src)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	// Runtime errors quote this chunk, and its imports resolve next to it.
	rt.SetSource(filename, src)

	return rt.Run(stmts)
}

func scriptArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one script, got %d arguments", c.NArg())
	}
	return c.Args().First(), nil
}

// runFile executes a script in a fresh runtime.
func runFile(c *cli.Context) (*interpreter.Runtime, error) {
	filename, err := scriptArg(c)
	if err != nil {
		return nil, err
	}
	cfg, logger, err := settings(c)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}

	logger.Debug().Str("file", filename).Msg("running script")
	rt := newRuntime(cfg, logger, os.Stdout)
	if err := compileAndRunWith(rt, filename, string(src)); err != nil {
		logger.Debug().Str("file", filename).Str("error", interpreter.Message(err)).Msg("script failed")
		return rt, err
	}
	return rt, nil
}

func runCommand(c *cli.Context) error {
	_, err := runFile(c)
	return err
}

func testCommand(c *cli.Context) error {
	rt, err := runFile(c)
	if err != nil {
		return err
	}

	results := rt.TestResults()
	if len(results) == 0 {
		fmt.Println("no tests found")
		return nil
	}
	failed := 0
	for _, res := range results {
		if !res.Passed {
			failed++
			fmt.Printf("FAIL %s: %s\n", res.Name, interpreter.Message(res.Err))
		}
	}
	fmt.Printf("%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}

func checkCommand(c *cli.Context) error {
	filename, err := scriptArg(c)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}
	stmts, err := parser.ParseProgram(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	fmt.Printf("%s: ok (%d top-level statements)\n", filename, len(stmts))
	return nil
}

func replCommand(c *cli.Context) error {
	cfg, logger, err := settings(c)
	if err != nil {
		return err
	}
	return runREPL(cfg, logger)
}

package interpreter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"vx/ast"
	"vx/parser"
	"vx/value"
)

// Module is one script's lexical scope: its function table, the modules it
// imported, and the directory its own imports resolve against. The main
// program is a Module too.
type Module struct {
	Path    string
	Funcs   *FunctionTable
	Imports *ModuleTable

	dir    string
	lines  []string
	sealed bool // cached; the tables are read-only from here on
}

// scope returns the module a call into m runs in. Calls into a sealed
// module get overlay tables, so declarations and imports made by the call
// stay local to it.
func (m *Module) scope() *Module {
	if !m.sealed {
		return m
	}
	return &Module{
		Path:    m.Path,
		Funcs:   m.Funcs.overlay(),
		Imports: m.Imports.overlay(),
		dir:     m.dir,
		lines:   m.lines,
	}
}

func newModule(path, dir, source string) *Module {
	return &Module{
		Path:    path,
		Funcs:   NewFunctionTable(),
		Imports: NewModuleTable(),
		dir:     dir,
		lines:   splitLinesPreserve(source),
	}
}

// ModuleTable maps import aliases to modules.
type ModuleTable struct {
	byAlias map[string]*Module
	parent  *ModuleTable
}

func NewModuleTable() *ModuleTable {
	return &ModuleTable{byAlias: map[string]*Module{}}
}

func (t *ModuleTable) Bind(alias string, m *Module) { t.byAlias[alias] = m }

func (t *ModuleTable) Lookup(alias string) (*Module, bool) {
	if m, ok := t.byAlias[alias]; ok {
		return m, true
	}
	if t.parent != nil {
		return t.parent.Lookup(alias)
	}
	return nil, false
}

func (t *ModuleTable) Aliases() []string {
	all := t.all()
	out := make([]string, 0, len(all))
	for a := range all {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (t *ModuleTable) all() map[string]*Module {
	if t.parent == nil {
		return t.byAlias
	}
	out := make(map[string]*Module, len(t.byAlias))
	for a, m := range t.parent.all() {
		out[a] = m
	}
	for a, m := range t.byAlias {
		out[a] = m
	}
	return out
}

func (t *ModuleTable) overlay() *ModuleTable {
	return &ModuleTable{byAlias: map[string]*Module{}, parent: t}
}

type moduleState int

const (
	modNone moduleState = iota
	modLoading
	modLoaded
)

// moduleCache is keyed by canonical path, so one file imported under many
// aliases or from many importers is evaluated once.
type moduleCache struct {
	byPath map[string]*Module
	states map[string]moduleState
	stack  []string
}

func newModuleCache() *moduleCache {
	return &moduleCache{
		byPath: map[string]*Module{},
		states: map[string]moduleState{},
	}
}

func splitLinesPreserve(src string) []string {
	if src == "" {
		return []string{}
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}

// ---------- Resolution ----------

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func (r *Runtime) importCandidates(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	withExt := raw
	needsExt := filepath.Ext(raw) == "" && r.env.settings.ext != ""
	if needsExt {
		withExt = raw + r.env.settings.ext
	}

	if filepath.IsAbs(raw) {
		cands := []string{filepath.Clean(raw)}
		if needsExt {
			cands = append(cands, filepath.Clean(withExt))
		}
		return cands
	}

	roots := append([]string{r.mod.dir}, r.env.settings.modulePaths...)
	cands := []string{}
	for _, root := range roots {
		cands = append(cands, filepath.Clean(filepath.Join(root, raw)))
		if needsExt {
			cands = append(cands, filepath.Clean(filepath.Join(root, withExt)))
		}
	}

	seen := map[string]bool{}
	out := []string{}
	for _, c := range cands {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// resolveImportPath returns the first existing candidate, or "" with the
// list of paths tried.
func (r *Runtime) resolveImportPath(raw string) (string, []string) {
	cands := r.importCandidates(raw)
	for _, c := range cands {
		if fileExists(c) {
			return canonicalPath(c), cands
		}
	}
	return "", cands
}

func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func (r *Runtime) circularImportMessage(target string) string {
	var b strings.Builder
	b.WriteString("Circular import detected:\n")
	for _, p := range r.cache.stack {
		b.WriteString("  ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(target)
	return b.String()
}

// ---------- Import ----------

func (r *Runtime) execImport(stmt *ast.ImportStmt) error {
	resolved, tried := r.resolveImportPath(stmt.Path)
	if resolved == "" {
		msg := fmt.Sprintf("import failed: file not found %q", stmt.Path)
		if len(tried) > 0 {
			msg += "\nTried:"
			for _, c := range tried {
				msg += "\n  " + c
			}
		}
		return r.fail(ModuleIO, "%s", msg)
	}

	switch r.cache.states[resolved] {
	case modLoaded:
		r.mod.Imports.Bind(stmt.Alias, r.cache.byPath[resolved])
		r.env.logger.Debug().Str("alias", stmt.Alias).Str("path", resolved).Msg("module cache hit")
		return nil
	case modLoading:
		return r.fail(CircularImport, "%s", r.circularImportMessage(resolved))
	}

	mod, err := r.loadModule(resolved)
	if err != nil {
		return err
	}
	r.mod.Imports.Bind(stmt.Alias, mod)
	r.env.logger.Debug().Str("alias", stmt.Alias).Str("path", resolved).Int("functions", mod.Funcs.Len()).Msg("module loaded")
	return nil
}

// loadModule parses path and runs its top level in a fresh runtime rooted
// at the file's directory. Only a successful run is cached.
func (r *Runtime) loadModule(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, r.fail(ModuleIO, "%s", errors.Wrapf(err, "import failed for %q", path).Error())
	}
	prog, err := parser.ParseProgram(string(data))
	if err != nil {
		return nil, r.fail(ModuleIO, "%s", errors.Wrapf(err, "import failed for %q", path).Error())
	}

	mod := newModule(path, filepath.Dir(path), string(data))
	r.cache.states[path] = modLoading
	r.cache.stack = append(r.cache.stack, path)

	loader := r.child(map[string]value.Value{}, mod, "")
	runErr := loader.Run(prog)

	r.cache.stack = r.cache.stack[:len(r.cache.stack)-1]
	if runErr != nil {
		delete(r.cache.states, path)
		return nil, runErr
	}
	mod.sealed = true
	r.cache.states[path] = modLoaded
	r.cache.byPath[path] = mod
	return mod, nil
}

// exportedFunc looks up name in the module bound to alias. Unexported
// functions are reported as such rather than as unknown.
func (r *Runtime) exportedFunc(m *Module, alias, name string) (*Function, error) {
	fn, ok := m.Funcs.Lookup(name)
	if !ok {
		return nil, r.fail(UnknownFunction, "module %q has no function %q", alias, name)
	}
	if !fn.Exported {
		return nil, r.fail(UnexportedMember, "function %q is not exported by module %q", name, alias)
	}
	return fn, nil
}

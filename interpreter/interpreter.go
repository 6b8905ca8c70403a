package interpreter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/oarkflow/log"

	"vx/ast"
	"vx/stdlib"
	"vx/value"
)

// environment is what every runtime spawned from one New call shares,
// across threads included: natives, output, logging and the thread
// registry. Everything in it is safe for concurrent use.
type environment struct {
	natives  stdlib.Table
	out      io.Writer
	logger   *log.Logger
	settings settings
	threads  *Bridge
	tests    *testLog
}

// Runtime executes statements against one variable environment. Function
// calls, test blocks and module loads run in child runtimes that share the
// relevant function table but start with their own variables.
type Runtime struct {
	vars  map[string]value.Value
	mod   *Module
	cache *moduleCache
	env   *environment

	at    ast.Span
	stack []string
	depth int
}

func New(opts ...Option) *Runtime {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	out := &lockedWriter{w: s.out}
	hub := stdlib.NewHub()
	hub.SetCopier(func(v value.Value) value.Value { return newSnapshot().value(v) })
	env := &environment{
		natives:  stdlib.New(stdlib.Env{Out: out, Channels: hub, HTTP: s.http}),
		out:      out,
		logger:   s.logger,
		settings: s,
		threads:  NewBridge(s.joinedResults, s.logger),
		tests:    &testLog{},
	}
	return &Runtime{
		vars:  map[string]value.Value{},
		mod:   newModule("", s.baseDir, ""),
		cache: newModuleCache(),
		env:   env,
	}
}

func (r *Runtime) child(vars map[string]value.Value, mod *Module, frame string) *Runtime {
	stack := r.stack
	if frame != "" {
		stack = append(append([]string(nil), r.stack...), frame)
	}
	return &Runtime{
		vars:  vars,
		mod:   mod,
		cache: r.cache,
		env:   r.env,
		stack: stack,
		depth: r.depth + 1,
	}
}

// Run executes a program. A top-level return ends it early without error.
func (r *Runtime) Run(stmts []ast.Stmt) error {
	err := r.execBlock(stmts)
	if _, ok := err.(ReturnSignal); ok {
		return nil
	}
	return err
}

func (r *Runtime) runtimeErr(span ast.Span, kind ErrorKind, msg string) error {
	lineText := ""
	if span.Line > 0 && span.Line-1 < len(r.mod.lines) {
		lineText = r.mod.lines[span.Line-1]
	}

	stack := make([]string, 0, len(r.stack))
	for idx := len(r.stack) - 1; idx >= 0; idx-- {
		stack = append(stack, r.stack[idx])
	}

	return RuntimeError{
		Kind:  kind,
		File:  r.mod.Path,
		Span:  span,
		Msg:   msg,
		Line:  lineText,
		Stack: stack,
	}
}

// fail reports an error at the statement being executed.
func (r *Runtime) fail(kind ErrorKind, format string, args ...any) error {
	return r.runtimeErr(r.at, kind, fmt.Sprintf(format, args...))
}

func (r *Runtime) print(v value.Value) {
	fmt.Fprintln(r.env.out, v.Display())
}

func (r *Runtime) execBlock(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := r.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) execStmt(s ast.Stmt) error {
	r.at = s.GetSpan()

	switch stmt := s.(type) {
	case *ast.SetStmt:
		v, err := r.eval(stmt.Value)
		if err != nil {
			return err
		}
		r.vars[stmt.Name] = v
		return nil

	case *ast.PropertySetStmt:
		return r.execPropertySet(stmt)

	case *ast.FunctionDecl:
		r.mod.Funcs.Define(functionFrom(stmt))
		return nil

	case *ast.PrintStmt:
		v, err := r.eval(stmt.Value)
		if err != nil {
			return err
		}
		r.print(v)
		return nil

	case *ast.ReturnStmt:
		v, err := r.eval(stmt.Value)
		if err != nil {
			return err
		}
		return ReturnSignal{Val: v}

	case *ast.IfStmt:
		ok, err := r.condition(stmt.Condition, "if")
		if err != nil || !ok {
			return err
		}
		return r.execBlock(stmt.Body)

	case *ast.CallStmt:
		v, err := r.evalCall(stmt.Call)
		if err != nil {
			return err
		}
		if !v.IsNull() {
			r.print(v)
		}
		return nil

	case *ast.ForStmt:
		return r.execFor(stmt)

	case *ast.WhileStmt:
		for {
			r.at = stmt.S
			ok, err := r.condition(stmt.Condition, "while")
			if err != nil || !ok {
				return err
			}
			if err := r.execBlock(stmt.Body); err != nil {
				return err
			}
		}

	case *ast.ImportStmt:
		return r.execImport(stmt)

	case *ast.TestStmt:
		return r.execTest(stmt)
	}

	return r.fail(0, "unsupported statement %s", s.NodeKind())
}

// condition evaluates an if/while condition, which must be a boolean.
func (r *Runtime) condition(e ast.Expr, keyword string) (bool, error) {
	v, err := r.eval(e)
	if err != nil {
		return false, err
	}
	if v.Kind != value.KindBool {
		return false, r.fail(NonBooleanCondition, "%s condition must be a boolean, got %s %s", keyword, v.Kind, v.Repr())
	}
	return v.Bool, nil
}

func (r *Runtime) execFor(stmt *ast.ForStmt) error {
	it, err := r.eval(stmt.Iterable)
	if err != nil {
		return err
	}
	if it.Kind != value.KindArray {
		return r.fail(InvalidIterable, "for expects an array, got %s", it.Kind)
	}
	for _, el := range it.Arr {
		r.vars[stmt.Var] = el
		if err := r.execBlock(stmt.Body); err != nil {
			return err
		}
	}
	return nil
}

// execPropertySet assigns through a dotted path. The root object is copied
// first, so other variables holding the same object are unaffected. Missing
// intermediate objects are created; a root that is not an object is
// replaced by a fresh one.
func (r *Runtime) execPropertySet(stmt *ast.PropertySetStmt) error {
	root, segs, ok := ast.Path(stmt.Object)
	if !ok {
		return r.fail(InvalidProperty, "cannot assign to a property of %s", stmt.Object)
	}
	v, err := r.eval(stmt.Value)
	if err != nil {
		return err
	}

	obj, exists := r.vars[root]
	if exists && obj.Kind == value.KindObject {
		obj = obj.Clone()
	} else {
		obj = value.Object(nil)
	}

	path := append(append([]string(nil), segs...), stmt.Property)
	m := obj.Obj
	for i, key := range path[:len(path)-1] {
		next, ok := m[key]
		if !ok {
			next = value.Object(nil)
			m[key] = next
		} else if next.Kind != value.KindObject {
			where := root + "." + strings.Join(path[:i+1], ".")
			return r.fail(InvalidProperty, "cannot set %s.%s: %s is a %s, not an object", where, path[i+1], where, next.Kind)
		}
		m = next.Obj
	}
	m[stmt.Property] = v
	r.vars[root] = obj
	return nil
}

// ---------- Tests ----------

type TestResult struct {
	Name   string
	Passed bool
	Err    error
}

type testLog struct {
	mu      sync.Mutex
	results []TestResult
}

func (l *testLog) add(res TestResult) {
	l.mu.Lock()
	l.results = append(l.results, res)
	l.mu.Unlock()
}

// execTest runs a test body with empty variables and the enclosing
// functions. A failing test is reported and recorded; the program goes on.
func (r *Runtime) execTest(stmt *ast.TestStmt) error {
	fmt.Fprintf(r.env.out, "Running test: %s\n", stmt.Name)

	err := r.child(map[string]value.Value{}, r.mod, "").Run(stmt.Body)
	r.env.tests.add(TestResult{Name: stmt.Name, Passed: err == nil, Err: err})
	if err != nil {
		fmt.Fprintf(r.env.out, "Test '%s' failed: %s\n", stmt.Name, Message(err))
		r.env.logger.Warn().Str("test", stmt.Name).Str("error", Message(err)).Msg("test failed")
	}

	fmt.Fprintf(r.env.out, "Test '%s' finished\n", stmt.Name)
	return nil
}

// Message is the one-line description of err: the message of a
// RuntimeError without its location, or err's own text.
func Message(err error) string {
	if re, ok := asRuntimeError(err); ok {
		return re.Msg
	}
	return err.Error()
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

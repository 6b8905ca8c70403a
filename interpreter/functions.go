package interpreter

import (
	"sort"

	"vx/ast"
)

// Function is a user function as registered by its declaration.
type Function struct {
	Name     string
	Params   []string
	Body     []ast.Stmt
	Exported bool
}

func functionFrom(decl *ast.FunctionDecl) *Function {
	return &Function{
		Name:     decl.Name,
		Params:   decl.Params,
		Body:     decl.Body,
		Exported: decl.Exported,
	}
}

// FunctionTable holds the functions of one script or module. Every runtime
// executing that script's code shares the table, so a declaration is visible
// to all code that runs after it, including calls already in progress.
//
// An overlay table records its own declarations and falls back to parent
// for lookups; parent is never written through it.
type FunctionTable struct {
	fns    map[string]*Function
	parent *FunctionTable
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{fns: map[string]*Function{}}
}

// Define registers fn, replacing any earlier function of the same name.
func (t *FunctionTable) Define(fn *Function) { t.fns[fn.Name] = fn }

func (t *FunctionTable) Lookup(name string) (*Function, bool) {
	if fn, ok := t.fns[name]; ok {
		return fn, true
	}
	if t.parent != nil {
		return t.parent.Lookup(name)
	}
	return nil, false
}

func (t *FunctionTable) Len() int { return len(t.all()) }

func (t *FunctionTable) Names() []string {
	all := t.all()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// all flattens the table and its parents, nearer declarations winning.
func (t *FunctionTable) all() map[string]*Function {
	if t.parent == nil {
		return t.fns
	}
	out := make(map[string]*Function, len(t.fns))
	for name, fn := range t.parent.all() {
		out[name] = fn
	}
	for name, fn := range t.fns {
		out[name] = fn
	}
	return out
}

func (t *FunctionTable) overlay() *FunctionTable {
	return &FunctionTable{fns: map[string]*Function{}, parent: t}
}

// clone copies the table and its entries into a single flat table. Bodies
// are shared: the AST is never mutated after parsing.
func (t *FunctionTable) clone() *FunctionTable {
	out := NewFunctionTable()
	for name, fn := range t.all() {
		cp := *fn
		cp.Params = append([]string(nil), fn.Params...)
		out.fns[name] = &cp
	}
	return out
}

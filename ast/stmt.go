package ast

import "fmt"

type Stmt interface {
	Node
	stmtNode()
	String() string
	GetSpan() Span
}

type SetStmt struct {
	S     Span
	Name  string
	Value Expr
}

func (s *SetStmt) NodeKind() string { return "SetStmt" }
func (s *SetStmt) stmtNode()        {}
func (s *SetStmt) GetSpan() Span    { return s.S }
func (s *SetStmt) String() string {
	return fmt.Sprintf("Set(%s = %s)", s.Name, s.Value.String())
}

// PropertySetStmt is `set a.b.c value`: Object is the chain up to the parent
// (a.b), Property the leaf key (c).
type PropertySetStmt struct {
	S        Span
	Object   Expr
	Property string
	Value    Expr
}

func (p *PropertySetStmt) NodeKind() string { return "PropertySetStmt" }
func (p *PropertySetStmt) stmtNode()        {}
func (p *PropertySetStmt) GetSpan() Span    { return p.S }
func (p *PropertySetStmt) String() string {
	return fmt.Sprintf("PropertySet(%s.%s = %s)", p.Object.String(), p.Property, p.Value.String())
}

type FunctionDecl struct {
	S        Span
	Name     string
	Params   []string
	Body     []Stmt
	Exported bool
}

func (f *FunctionDecl) NodeKind() string { return "FunctionDecl" }
func (f *FunctionDecl) stmtNode()        {}
func (f *FunctionDecl) GetSpan() Span    { return f.S }
func (f *FunctionDecl) String() string {
	prefix := ""
	if f.Exported {
		prefix = "export "
	}
	return fmt.Sprintf("%sFunction(%s, params=%d, body=%d)", prefix, f.Name, len(f.Params), len(f.Body))
}

type PrintStmt struct {
	S     Span
	Value Expr
}

func (p *PrintStmt) NodeKind() string { return "PrintStmt" }
func (p *PrintStmt) stmtNode()        {}
func (p *PrintStmt) GetSpan() Span    { return p.S }
func (p *PrintStmt) String() string   { return fmt.Sprintf("Print(%s)", p.Value.String()) }

type ReturnStmt struct {
	S     Span
	Value Expr
}

func (r *ReturnStmt) NodeKind() string { return "ReturnStmt" }
func (r *ReturnStmt) stmtNode()        {}
func (r *ReturnStmt) GetSpan() Span    { return r.S }
func (r *ReturnStmt) String() string   { return fmt.Sprintf("Return(%s)", r.Value.String()) }

type IfStmt struct {
	S         Span
	Condition Expr
	Body      []Stmt
}

func (i *IfStmt) NodeKind() string { return "IfStmt" }
func (i *IfStmt) stmtNode()        {}
func (i *IfStmt) GetSpan() Span    { return i.S }
func (i *IfStmt) String() string {
	return fmt.Sprintf("If(%s, body=%d)", i.Condition.String(), len(i.Body))
}

// CallStmt is a call used as a statement.
type CallStmt struct {
	S    Span
	Call *CallExpr
}

func (c *CallStmt) NodeKind() string { return "CallStmt" }
func (c *CallStmt) stmtNode()        {}
func (c *CallStmt) GetSpan() Span    { return c.S }
func (c *CallStmt) String() string   { return fmt.Sprintf("CallStmt(%s)", c.Call.String()) }

type ForStmt struct {
	S        Span
	Var      string
	Iterable Expr
	Body     []Stmt
}

func (f *ForStmt) NodeKind() string { return "ForStmt" }
func (f *ForStmt) stmtNode()        {}
func (f *ForStmt) GetSpan() Span    { return f.S }
func (f *ForStmt) String() string {
	return fmt.Sprintf("For(%s in %s, body=%d)", f.Var, f.Iterable.String(), len(f.Body))
}

type WhileStmt struct {
	S         Span
	Condition Expr
	Body      []Stmt
}

func (w *WhileStmt) NodeKind() string { return "WhileStmt" }
func (w *WhileStmt) stmtNode()        {}
func (w *WhileStmt) GetSpan() Span    { return w.S }
func (w *WhileStmt) String() string {
	return fmt.Sprintf("While(%s, body=%d)", w.Condition.String(), len(w.Body))
}

type ImportStmt struct {
	S     Span
	Alias string
	Path  string
}

func (i *ImportStmt) NodeKind() string { return "ImportStmt" }
func (i *ImportStmt) stmtNode()        {}
func (i *ImportStmt) GetSpan() Span    { return i.S }
func (i *ImportStmt) String() string   { return fmt.Sprintf("Import(%s from %q)", i.Alias, i.Path) }

type TestStmt struct {
	S    Span
	Name string
	Body []Stmt
}

func (t *TestStmt) NodeKind() string { return "TestStmt" }
func (t *TestStmt) stmtNode()        {}
func (t *TestStmt) GetSpan() Span    { return t.S }
func (t *TestStmt) String() string {
	return fmt.Sprintf("Test(%q, body=%d)", t.Name, len(t.Body))
}

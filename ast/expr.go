package ast

import (
	"fmt"
	"strings"
)

type Expr interface {
	Node
	exprNode()
	String() string
}

type NumberLiteral struct {
	Value int32
}

func (n *NumberLiteral) NodeKind() string { return "NumberLiteral" }
func (n *NumberLiteral) exprNode()        {}
func (n *NumberLiteral) String() string   { return fmt.Sprintf("Number(%d)", n.Value) }

type BoolLiteral struct {
	Value bool
}

func (b *BoolLiteral) NodeKind() string { return "BoolLiteral" }
func (b *BoolLiteral) exprNode()        {}
func (b *BoolLiteral) String() string {
	if b.Value {
		return "Bool(true)"
	}
	return "Bool(false)"
}

type StringLiteral struct {
	Value string
}

func (s *StringLiteral) NodeKind() string { return "StringLiteral" }
func (s *StringLiteral) exprNode()        {}
func (s *StringLiteral) String() string   { return fmt.Sprintf("String(%q)", s.Value) }

type NullLiteral struct{}

func (n *NullLiteral) NodeKind() string { return "NullLiteral" }
func (n *NullLiteral) exprNode()        {}
func (n *NullLiteral) String() string   { return "Null" }

type Variable struct {
	Name string
}

func (v *Variable) NodeKind() string { return "Variable" }
func (v *Variable) exprNode()        {}
func (v *Variable) String() string   { return fmt.Sprintf("Var(%s)", v.Name) }

// CallExpr names its callee textually; a single dot ("m.fn") marks a
// module-qualified call.
type CallExpr struct {
	Name string
	Args []Expr
}

func (c *CallExpr) NodeKind() string { return "CallExpr" }
func (c *CallExpr) exprNode()        {}
func (c *CallExpr) String() string {
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("Call(%s, [%s])", c.Name, strings.Join(parts, ", "))
}

type Comparison struct {
	Left  Expr
	Op    string
	Right Expr
}

func (c *Comparison) NodeKind() string { return "Comparison" }
func (c *Comparison) exprNode()        {}
func (c *Comparison) String() string {
	return fmt.Sprintf("Compare(%s %s %s)", c.Left.String(), c.Op, c.Right.String())
}

type ArrayLiteral struct {
	Elements []Expr
}

func (a *ArrayLiteral) NodeKind() string { return "ArrayLiteral" }
func (a *ArrayLiteral) exprNode()        {}
func (a *ArrayLiteral) String() string {
	if len(a.Elements) == 0 {
		return "Array([])"
	}
	parts := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		parts = append(parts, e.String())
	}
	return fmt.Sprintf("Array([%s])", strings.Join(parts, ", "))
}

type ObjectEntry struct {
	Key   string
	Value Expr
}

// ObjectLiteral keys are unique; entry order carries no meaning.
type ObjectLiteral struct {
	Entries []ObjectEntry
}

func (o *ObjectLiteral) NodeKind() string { return "ObjectLiteral" }
func (o *ObjectLiteral) exprNode()        {}
func (o *ObjectLiteral) String() string {
	parts := make([]string, 0, len(o.Entries))
	for _, e := range o.Entries {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Key, e.Value.String()))
	}
	return fmt.Sprintf("Object({%s})", strings.Join(parts, ", "))
}

type PropertyAccess struct {
	Object   Expr
	Property string
}

func (p *PropertyAccess) NodeKind() string { return "PropertyAccess" }
func (p *PropertyAccess) exprNode()        {}
func (p *PropertyAccess) String() string {
	return fmt.Sprintf("Prop(%s.%s)", p.Object.String(), p.Property)
}

// InterpolationPart is either literal Text or an embedded Expr (Expr != nil).
type InterpolationPart struct {
	Text string
	Expr Expr
}

type Interpolation struct {
	Parts []InterpolationPart
}

func (i *Interpolation) NodeKind() string { return "Interpolation" }
func (i *Interpolation) exprNode()        {}
func (i *Interpolation) String() string {
	var b strings.Builder
	b.WriteString("Interp(")
	for idx, p := range i.Parts {
		if idx > 0 {
			b.WriteString(" ")
		}
		if p.Expr != nil {
			b.WriteString("${" + p.Expr.String() + "}")
			continue
		}
		b.WriteString(fmt.Sprintf("%q", p.Text))
	}
	b.WriteString(")")
	return b.String()
}

// Path flattens a Variable/PropertyAccess chain into its root name and the
// property segments below it. ok is false for any other shape.
func Path(e Expr) (root string, segments []string, ok bool) {
	for {
		switch x := e.(type) {
		case *Variable:
			for l, r := 0, len(segments)-1; l < r; l, r = l+1, r-1 {
				segments[l], segments[r] = segments[r], segments[l]
			}
			return x.Name, segments, true
		case *PropertyAccess:
			segments = append(segments, x.Property)
			e = x.Object
		default:
			return "", nil, false
		}
	}
}

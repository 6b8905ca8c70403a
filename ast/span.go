package ast

// Span locates a node in its source file. The front end is line oriented,
// so Col is 1 for every statement.
type Span struct {
	Line int
	Col  int
}

type HasSpan interface {
	GetSpan() Span
}

func SpanOf(n any) (Span, bool) {
	if n == nil {
		return Span{}, false
	}
	hs, ok := n.(HasSpan)
	if !ok {
		return Span{}, false
	}
	return hs.GetSpan(), true
}

type Node interface {
	NodeKind() string
}

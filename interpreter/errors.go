package interpreter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"vx/ast"
	"vx/value"
)

// ErrorKind classifies a RuntimeError.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota + 1
	UnknownFunction
	ArityMismatch
	NonBooleanCondition
	InvalidComparison
	InvalidProperty
	UnexportedMember
	ModuleIO
	NativeFailure
	InvalidIterable
	CircularImport
	CallDepth
	UnknownModule
	ThreadFailure
)

var kindNames = map[ErrorKind]string{
	UndefinedVariable:   "undefined variable",
	UnknownFunction:     "unknown function",
	ArityMismatch:       "arity mismatch",
	NonBooleanCondition: "non-boolean condition",
	InvalidComparison:   "invalid comparison",
	InvalidProperty:     "invalid property access",
	UnexportedMember:    "unexported member",
	ModuleIO:            "module i/o",
	NativeFailure:       "native failure",
	InvalidIterable:     "invalid iterable",
	CircularImport:      "circular import",
	CallDepth:           "call depth exceeded",
	UnknownModule:       "unknown module",
	ThreadFailure:       "thread failure",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "runtime error"
}

// ReturnSignal carries a `return` value up to the enclosing function body or
// script top level. It never escapes Run.
type ReturnSignal struct{ Val value.Value }

func (r ReturnSignal) Error() string { return "return" }

type RuntimeError struct {
	Kind  ErrorKind
	File  string
	Span  ast.Span
	Msg   string
	Line  string
	Stack []string
}

func (e RuntimeError) Error() string {
	loc := "unknown:0"
	if e.File != "" && e.Span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Span.Line)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Runtime error at %s\n", loc))
	b.WriteString(fmt.Sprintf("  %s\n", e.Msg))

	if e.Line != "" && e.Span.Line > 0 {
		b.WriteString(fmt.Sprintf("  %d | %s\n", e.Span.Line, e.Line))

		prefix := fmt.Sprintf("  %d | ", e.Span.Line)
		col := e.Span.Col
		if col < 1 {
			col = 1
		}
		b.WriteString(strings.Repeat(" ", len(prefix)+indentOf(e.Line)+col-1))
		b.WriteString("^\n")
	}

	if len(e.Stack) > 0 {
		b.WriteString("Stack:\n")
		for _, fn := range e.Stack {
			b.WriteString(fmt.Sprintf("  at %s()\n", fn))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// indentOf counts the leading blanks the splitter trimmed from a line, so
// the caret lands under its first word.
func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// IsKind reports whether err is a RuntimeError of kind k.
func IsKind(err error, k ErrorKind) bool {
	re, ok := asRuntimeError(err)
	return ok && re.Kind == k
}

func asRuntimeError(err error) (RuntimeError, bool) {
	var re RuntimeError
	if errors.As(err, &re) {
		return re, true
	}
	return RuntimeError{}, false
}

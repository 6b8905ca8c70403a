package parser

import "fmt"

// ParseError reports malformed source. Line is 0 when the fragment was
// parsed on its own, outside any program.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line <= 0 {
		return "parse error: " + e.Msg
	}
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}

func errorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// atLine stamps a line onto an error raised while parsing a fragment of that
// line. Errors that already carry a line are left alone.
func atLine(err error, line int) error {
	if pe, ok := err.(*ParseError); ok && pe.Line == 0 {
		return &ParseError{Line: line, Msg: pe.Msg}
	}
	return err
}

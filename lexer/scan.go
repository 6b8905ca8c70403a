package lexer

// scanState is the single quote/escape/bracket tracker every top-level
// helper in this package is built on. Inside a string literal, "${" enters
// an embedded expression that runs to its balanced "}"; strings nested in
// there are tracked the same way.
type scanState struct {
	open     []byte // unclosed brackets, innermost last
	mismatch bool   // a closer did not match its opener, or had none
	inString bool
	escaped  bool
	dollar   bool
	interp   []int // brace depth of each ${...} entered from inside a string
}

// quoted reports whether the scanner is inside a string literal, including
// any expression embedded in one.
func (st *scanState) quoted() bool { return st.inString || len(st.interp) > 0 }

// step advances over c and reports whether c sits at top level: outside
// string literals and not nested in (), [] or {}. Opening brackets report
// the depth outside them and closing brackets the depth after they close,
// so both ends of a balanced "(...)" are top level. Quote characters are
// never top level.
func (st *scanState) step(c byte) bool {
	if st.inString {
		dollar := false
		switch {
		case st.escaped:
			st.escaped = false
		case c == '\\':
			st.escaped = true
		case c == '"':
			st.inString = false
		case c == '{' && st.dollar:
			st.inString = false
			st.interp = append(st.interp, 0)
		case c == '$':
			dollar = true
		}
		st.dollar = dollar
		return false
	}

	if n := len(st.interp); n > 0 {
		switch c {
		case '"':
			st.inString = true
		case '{':
			st.interp[n-1]++
		case '}':
			if st.interp[n-1] == 0 {
				st.interp = st.interp[:n-1]
				st.inString = true
			} else {
				st.interp[n-1]--
			}
		}
		return false
	}

	switch c {
	case '"':
		st.inString = true
		return false
	case '(', '[', '{':
		st.open = append(st.open, c)
		return len(st.open) == 1
	case ')', ']', '}':
		n := len(st.open)
		if n == 0 {
			st.mismatch = true
			return false
		}
		if st.open[n-1] != openerOf(c) {
			st.mismatch = true
		}
		st.open = st.open[:n-1]
		return n == 1
	default:
		return len(st.open) == 0
	}
}

func openerOf(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	}
	return '{'
}

// Walk visits every byte of s with its top-level flag. visit returns false
// to stop the walk.
func Walk(s string, visit func(i int, top bool) bool) {
	var st scanState
	for i := 0; i < len(s); i++ {
		if !visit(i, st.step(s[i])) {
			return
		}
	}
}

// SplitTopLevel splits s on every top-level occurrence of sep. Parts are
// returned untrimmed; an empty s yields no parts.
func SplitTopLevel(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var parts []string
	start := 0
	Walk(s, func(i int, top bool) bool {
		if top && s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
		return true
	})
	return append(parts, s[start:])
}

// IndexOperator returns the position of the leftmost top-level occurrence of
// any of ops, trying ops in the given order at each position (list longer
// operators first). It returns -1 when none is found.
func IndexOperator(s string, ops []string) (int, string) {
	at, found := -1, ""
	Walk(s, func(i int, top bool) bool {
		if !top {
			return true
		}
		for _, op := range ops {
			if len(s)-i >= len(op) && s[i:i+len(op)] == op {
				at, found = i, op
				return false
			}
		}
		return true
	})
	return at, found
}

// MatchingClose returns the index of the bracket closing the one at open, or
// -1 if it is never closed or is closed by the wrong kind of bracket.
func MatchingClose(s string, open int) int {
	if open < 0 || open >= len(s) {
		return -1
	}
	closeAt := -1
	Walk(s[open:], func(i int, top bool) bool {
		if i > 0 && top {
			switch c := s[open+i]; c {
			case ')', ']', '}':
				if openerOf(c) == s[open] {
					closeAt = open + i
				}
				return false
			}
		}
		return true
	})
	return closeAt
}

// MatchingQuote returns the index of the quote closing the string literal
// that opens at open, or -1.
func MatchingQuote(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '"' {
		return -1
	}
	var st scanState
	st.step('"')
	for i := open + 1; i < len(s); i++ {
		st.step(s[i])
		if !st.quoted() {
			return i
		}
	}
	return -1
}

// Depth reports the bracket nesting left open at the end of s and whether a
// string literal is still open there.
func Depth(s string) (depth int, inString bool) {
	var st scanState
	for i := 0; i < len(s); i++ {
		st.step(s[i])
	}
	return len(st.open), st.quoted()
}

// Mismatch returns the index of the first closing bracket in s that does not
// close the innermost open bracket of its kind, or -1.
func Mismatch(s string) int {
	var st scanState
	for i := 0; i < len(s); i++ {
		st.step(s[i])
		if st.mismatch {
			return i
		}
	}
	return -1
}

// StripComment cuts a line at the first '#' outside any quoted text. Single
// quotes only delimit import paths, so they are tracked here and nowhere
// else.
func StripComment(line string) string {
	var st scanState
	single := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if !st.quoted() {
			switch {
			case c == '\'':
				single = !single
				continue
			case single:
				continue
			case c == '#':
				return line[:i]
			}
		}
		st.step(c)
	}
	return line
}

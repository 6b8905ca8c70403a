package lexer

import "strings"

// Line is one logical source line: comment stripped, trimmed, never empty.
type Line struct {
	Text string
	Num  int
}

// Lines is the queue of logical lines the statement parser consumes.
type Lines struct {
	items []Line
	pos   int
}

func Split(src string) *Lines {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")

	out := &Lines{}
	for idx, raw := range strings.Split(src, "\n") {
		text := strings.TrimSpace(StripComment(raw))
		if text == "" {
			continue
		}
		out.items = append(out.items, Line{Text: text, Num: idx + 1})
	}
	return out
}

func (l *Lines) Next() (Line, bool) {
	if l.pos >= len(l.items) {
		return Line{}, false
	}
	ln := l.items[l.pos]
	l.pos++
	return ln, true
}

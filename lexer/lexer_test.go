package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitDropsCommentsAndBlankLines(t *testing.T) {
	src := "# header\r\nset x 1   # trailing\n\n   print \"a # b\"\nimport m from './x#y.vx'\n"
	l := Split(src)

	var got []Line
	for {
		ln, ok := l.Next()
		if !ok {
			break
		}
		got = append(got, ln)
	}
	want := []Line{
		{Text: "set x 1", Num: 2},
		{Text: `print "a # b"`, Num: 4},
		{Text: "import m from './x#y.vx'", Num: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		in   string
		sep  byte
		want []string
	}{
		{"", ',', nil},
		{"a, b", ',', []string{"a", " b"}},
		{`f(1, 2), "x,y", [3, 4], {a: 1, b: 2}`, ',', []string{`f(1, 2)`, ` "x,y"`, ` [3, 4]`, ` {a: 1, b: 2}`}},
		{`"a" + "b+c" + f(x + y)`, '+', []string{`"a" `, ` "b+c" `, ` f(x + y)`}},
		{`"${f("a,b")}", c`, ',', []string{`"${f("a,b")}"`, ` c`}},
		{`"\"a,b\"", c`, ',', []string{`"\"a,b\""`, ` c`}},
	}
	for _, tt := range tests {
		got := SplitTopLevel(tt.in, tt.sep)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SplitTopLevel(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestIndexOperator(t *testing.T) {
	ops := []string{"==", "!=", "<=", ">=", "<", ">"}
	tests := []struct {
		in     string
		at     int
		wantOp string
	}{
		{"a <= b", 2, "<="},
		{"a < b", 2, "<"},
		{`f(a == b) != c`, 10, "!="},
		{`"x == y"`, -1, ""},
		{`[a > b]`, -1, ""},
	}
	for _, tt := range tests {
		at, op := IndexOperator(tt.in, ops)
		if at != tt.at || op != tt.wantOp {
			t.Errorf("IndexOperator(%q) = %d, %q; want %d, %q", tt.in, at, op, tt.at, tt.wantOp)
		}
	}
}

func TestMatchingCloseAndQuote(t *testing.T) {
	s := `f(a, [1, ")"], {b: g(2)}) + 1`
	if got := MatchingClose(s, 1); got != 24 {
		t.Fatalf("MatchingClose = %d, want 24", got)
	}
	if got := MatchingClose("(a", 0); got != -1 {
		t.Fatalf("unclosed paren: got %d", got)
	}
	if got := MatchingClose("[1, 2)", 0); got != -1 {
		t.Fatalf("mismatched close: got %d", got)
	}

	q := `"a ${f("b")} c" + d`
	if got := MatchingQuote(q, 0); got != 14 {
		t.Fatalf("MatchingQuote = %d, want 14", got)
	}
	if got := MatchingQuote(`"abc`, 0); got != -1 {
		t.Fatalf("unterminated quote: got %d", got)
	}
}

func TestMismatch(t *testing.T) {
	tests := []struct {
		in string
		at int
	}{
		{"[1, (2)]", -1},
		{"[1, 2)", 5},
		{"{a: 1)", 5},
		{"f(1]", 3},
		{"a)", 1},
		{`["(]"]`, -1},
		{`"${ f(1] }"`, -1},
	}
	for _, tt := range tests {
		if got := Mismatch(tt.in); got != tt.at {
			t.Errorf("Mismatch(%q) = %d, want %d", tt.in, got, tt.at)
		}
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		in       string
		depth    int
		inString bool
	}{
		{"{", 1, false},
		{"{a: [1, 2", 2, false},
		{`{a: "}`, 1, true},
		{`{a: "}"}`, 0, false},
		{`"${ {a: 1}`, 0, true},
	}
	for _, tt := range tests {
		d, s := Depth(tt.in)
		if d != tt.depth || s != tt.inString {
			t.Errorf("Depth(%q) = %d, %v; want %d, %v", tt.in, d, s, tt.depth, tt.inString)
		}
	}
}

func TestFirstWordAndKeywords(t *testing.T) {
	w, kw := FirstWord("set x 1")
	if w != "set" || kw != SET {
		t.Fatalf("FirstWord = %q, %q", w, kw)
	}
	if _, kw := FirstWord("Set x 1"); kw != NONE {
		t.Fatalf("keywords are case-sensitive, got %q", kw)
	}
	if _, kw := FirstWord("printer(1)"); kw != NONE {
		t.Fatalf("prefix of keyword matched: %q", kw)
	}
	for _, s := range []string{"a", "_x", "abc_12"} {
		if !IsIdent(s) {
			t.Errorf("IsIdent(%q) = false", s)
		}
	}
	for _, s := range []string{"", "1a", "a-b", "a.b"} {
		if IsIdent(s) {
			t.Errorf("IsIdent(%q) = true", s)
		}
	}
}

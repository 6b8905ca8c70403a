package main

import "testing"

func TestUpdateDepth(t *testing.T) {
	lines := []struct {
		text string
		want int
	}{
		{"function f(x) start", 1},
		{"if x > 1 start # comment", 2},
		{"print \"start\"", 2},
		{"# end", 2},
		{"end", 1},
		{"", 1},
		{"end", 0},
		{"end", 0},
	}
	depth := 0
	for _, l := range lines {
		depth = updateDepth(depth, l.text)
		if depth != l.want {
			t.Fatalf("after %q depth = %d, want %d", l.text, depth, l.want)
		}
	}
}

func TestPendingWaitsForBrackets(t *testing.T) {
	r := &repl{}
	r.buf.WriteString("set cfg {\n  a: 1,\n")
	if !r.pending() {
		t.Fatal("open object literal should keep buffering")
	}
	r.buf.WriteString("}\n")
	if r.pending() {
		t.Fatal("balanced input should run")
	}
}

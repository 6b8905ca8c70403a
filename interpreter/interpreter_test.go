package interpreter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/oarkflow/log"

	"vx/parser"
	"vx/value"
)

func quietLogger() *log.Logger {
	return &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

// run parses src as test.vx and executes it, returning what it printed.
func run(t *testing.T, src string, opts ...Option) (string, *Runtime, error) {
	t.Helper()
	prog, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	rt := New(append([]Option{WithOutput(&out), WithLogger(quietLogger())}, opts...)...)
	rt.SetSource("test.vx", src)
	err = rt.Run(prog)
	return out.String(), rt, err
}

func mustRun(t *testing.T, src string, opts ...Option) (string, *Runtime) {
	t.Helper()
	out, rt, err := run(t, src, opts...)
	if err != nil {
		t.Fatalf("run: %v\noutput so far:\n%s", err, out)
	}
	return out, rt
}

func wantKind(t *testing.T, err error, k ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a %s error, got none", k)
	}
	if !IsKind(err, k) {
		t.Fatalf("error = %v\nwant kind %s", err, k)
	}
}

func TestArraysAndLoops(t *testing.T) {
	out, _ := mustRun(t, `
set xs [10, 20, 30]
print array_length(xs)
print array_get(xs, 0)
print array_get(xs, 2)
for v in array_range(4) start
  print v
end
`)
	if diff := cmp.Diff("3\n10\n30\n0\n1\n2\n3\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestLoopBodiesUpdateEnclosingVariables(t *testing.T) {
	out, _ := mustRun(t, `
set i 0
set total 0
while i < 4 start
  set total math_add(total, i)
  set i math_add(i, 1)
end
for v in [5, 6] start
  set last v
end
print total
print last
print v
`)
	if diff := cmp.Diff("6\n6\n6\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertySet(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "undefined root",
			src:  "set obj.a.b 1\nprint obj",
			want: "{a: {b: 1}}\n",
		},
		{
			name: "existing object keeps other keys",
			src:  "set cfg {name: \"x\", db: {port: 1}}\nset cfg.db.port 5432\nset cfg.db.host \"h\"\nprint cfg",
			want: "{db: {host: \"h\", port: 5432}, name: \"x\"}\n",
		},
		{
			name: "copies are independent",
			src:  "set a {x: 1}\nset b a\nset b.x 2\nprint a.x\nprint b.x",
			want: "1\n2\n",
		},
		{
			name: "non-object root is replaced",
			src:  "set n 5\nset n.k true\nprint n",
			want: "{k: true}\n",
		},
		{
			name: "read back through a chain",
			src:  "set o.a.b [1, 2]\nprint array_length(o.a.b)",
			want: "2\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := mustRun(t, tt.src)
			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFunctions(t *testing.T) {
	src := `
function is_ten(v) start
  if v == 10 start
    return "yes"
  end
  return "no"
end
`
	_, rt := mustRun(t, src)
	for _, tt := range []struct {
		arg  int32
		want string
	}{{10, "yes"}, {9, "no"}, {-10, "no"}, {0, "no"}} {
		got, err := rt.Call("is_ten", value.Number(tt.arg))
		if err != nil {
			t.Fatal(err)
		}
		if got.Str != tt.want {
			t.Errorf("is_ten(%d) = %s, want %s", tt.arg, got.Repr(), tt.want)
		}
	}
}

func TestRecursionAndLaterSiblings(t *testing.T) {
	out, _ := mustRun(t, `
function fact(n) start
  if n <= 1 start
    return 1
  end
  return math_multiply(n, fact(math_subtract(n, 1)))
end
function is_even(n) start
  if n == 0 start
    return true
  end
  return is_odd(math_subtract(n, 1))
end
function is_odd(n) start
  if n == 0 start
    return false
  end
  return is_even(math_subtract(n, 1))
end
print fact(5)
print is_even(10)
print is_odd(7)
`)
	if diff := cmp.Diff("120\ntrue\ntrue\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestCallStatementsAndReturnValues(t *testing.T) {
	out, _ := mustRun(t, `
function noop() start
  set x 1
end
noop()
print noop()
math_add(1, 2)
print "end"
return
print "unreachable"
`)
	if diff := cmp.Diff("null\n3\nend\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolation(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"set name \"Tim\"\nprint \"Hello ${name}, ${math_add(2,3)}!\"", "Hello Tim, 5!\n"},
		{"set amount 3\nprint \"Price: \\${amount} is ${amount}\"", "Price: ${amount} is 3\n"},
		{"set o {k: [1, \"a\"]}\nprint \"o=${o} n=${null}\"", "o={k: [1, \"a\"]} n=null\n"},
		{"print \"plain \\\"quoted\\\"\"", "plain \"quoted\"\n"},
		{"print \"a\" + 1 + true", "a1true\n"},
	}
	for _, tt := range tests {
		out, _ := mustRun(t, tt.src)
		if out != tt.want {
			t.Errorf("%s\ngot  %q\nwant %q", tt.src, out, tt.want)
		}
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 < 2", "true"},
		{"2 <= 2", "true"},
		{"3 > 4", "false"},
		{"-1 >= -1", "true"},
		{"5 != 5", "false"},
		{`"a" == "a"`, "true"},
		{`"a" != "b"`, "true"},
		{"true == false", "false"},
	}
	for _, tt := range tests {
		out, _ := mustRun(t, "print "+tt.expr)
		if strings.TrimSpace(out) != tt.want {
			t.Errorf("%s = %s, want %s", tt.expr, strings.TrimSpace(out), tt.want)
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ErrorKind
	}{
		{"undefined variable", "print nope", UndefinedVariable},
		{"function locals only", "set g 1\nfunction f() start\nreturn g\nend\nf()", UndefinedVariable},
		{"unknown function", "nope(1)", UnknownFunction},
		{"arity", "function f(a) start\nreturn a\nend\nf(1, 2)", ArityMismatch},
		{"while non-boolean", "set i 1\nwhile i start\nprint i\nend", NonBooleanCondition},
		{"if non-boolean", "if \"yes\" start\nprint 1\nend", NonBooleanCondition},
		{"mixed comparison", "print 1 == \"1\"", InvalidComparison},
		{"string ordering", "print \"a\" < \"b\"", InvalidComparison},
		{"null comparison", "print null == null", InvalidComparison},
		{"property of number", "set n 1\nprint n.x", InvalidProperty},
		{"missing key", "set o {a: 1}\nprint o.b", InvalidProperty},
		{"intermediate not object", "set o {a: 1}\nset o.a.b 2", InvalidProperty},
		{"for over number", "for x in 3 start\nprint x\nend", InvalidIterable},
		{"native failure", "print math_divide(1, 0)", NativeFailure},
		{"unknown module", "nope.fn()", UnknownModule},
		{"call depth", "function loop(n) start\nreturn loop(n)\nend\nloop(1)", CallDepth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.src, WithMaxCallDepth(50))
			wantKind(t, err, tt.kind)
		})
	}
}

func TestFailureStopsExecution(t *testing.T) {
	out, _, err := run(t, "print 1\nprint nope\nprint 2")
	wantKind(t, err, UndefinedVariable)
	if out != "1\n" {
		t.Errorf("got %q after failure", out)
	}
}

func TestRuntimeErrorFormat(t *testing.T) {
	src := "function inner() start\n  return missing\nend\nfunction outer() start\n  return inner()\nend\nouter()"
	_, _, err := run(t, src)
	want := strings.Join([]string{
		"Runtime error at test.vx:2",
		`  undefined variable "missing"`,
		"  2 |   return missing",
		"        ^",
		"Stack:",
		"  at inner()",
		"  at outer()",
	}, "\n")
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Errorf("rendering mismatch (-want +got):\n%s", diff)
	}
	if Message(err) != `undefined variable "missing"` {
		t.Errorf("Message = %q", Message(err))
	}
}

func TestTestBlocks(t *testing.T) {
	out, rt := mustRun(t, `
function double(x) start
  return math_multiply(x, 2)
end
set outer 1
test "doubling" start
  assert_equal(double(2), 4)
end
test "isolated" start
  print outer
end
print "after"
`)
	want := strings.Join([]string{
		"Running test: doubling",
		"Test 'doubling' finished",
		"Running test: isolated",
		`Test 'isolated' failed: undefined variable "outer"`,
		"Test 'isolated' finished",
		"after",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	type outcome struct {
		Name   string
		Passed bool
	}
	var got []outcome
	for _, res := range rt.TestResults() {
		got = append(got, outcome{res.Name, res.Passed})
	}
	if diff := cmp.Diff([]outcome{{"doubling", true}, {"isolated", false}}, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestInspect(t *testing.T) {
	_, rt := mustRun(t, "set b 2\nset a [1]\nfunction z() start\nend\nfunction y() start\nend")
	if diff := cmp.Diff([]string{"y", "z"}, rt.FuncNames()); diff != "" {
		t.Errorf("FuncNames mismatch (-want +got):\n%s", diff)
	}
	globals := rt.Globals()
	if len(globals) != 2 || globals["b"].Num != 2 || globals["a"].Display() != "[1]" {
		t.Errorf("Globals = %v", globals)
	}
	globals["b"] = value.Number(9)
	if rt.Globals()["b"].Num != 2 {
		t.Error("Globals returned the live map")
	}
}

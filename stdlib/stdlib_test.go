package stdlib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vx/value"
)

func n(i int32) value.Value  { return value.Number(i) }
func s(v string) value.Value { return value.String(v) }
func arr(vs ...value.Value) value.Value {
	return value.Array(vs)
}

func call(t *testing.T, tbl Table, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := tbl.Lookup(name)
	if !ok {
		t.Fatalf("native %s is not registered", name)
	}
	return fn(args)
}

func TestNativesReturnValues(t *testing.T) {
	tbl := New(Env{Out: &bytes.Buffer{}})
	obj := value.Object(map[string]value.Value{"b": n(2), "a": n(1)})

	tests := []struct {
		name string
		args []value.Value
		want string
	}{
		{"math_add", []value.Value{n(4), n(6)}, "10"},
		{"math_subtract", []value.Value{n(4), n(6)}, "-2"},
		{"math_multiply", []value.Value{n(3), n(7)}, "21"},
		{"math_divide", []value.Value{n(7), n(2)}, "3"},
		{"math_modulo", []value.Value{n(7), n(4)}, "3"},
		{"math_power", []value.Value{n(2), n(5)}, "32"},
		{"math_sqrt", []value.Value{n(17)}, "4"},
		{"math_abs", []value.Value{n(-9)}, "9"},

		{"array_push", []value.Value{arr(n(1)), n(2), s("x")}, `[1, 2, "x"]`},
		{"array_pop", []value.Value{arr(n(1), n(3))}, "3"},
		{"array_length", []value.Value{arr(n(1), n(3))}, "2"},
		{"array_get", []value.Value{arr(n(1), n(3)), n(1)}, "3"},
		{"array_set", []value.Value{arr(n(1), n(3)), n(0), n(9)}, "[9, 3]"},
		{"array_slice", []value.Value{arr(n(0), n(1), n(2), n(3)), n(1), n(3)}, "[1, 2]"},
		{"array_join", []value.Value{arr(n(1), s("a"), value.Bool(true)), s(",")}, "1,a,true"},
		{"array_to_string", []value.Value{arr(n(1), s("a"))}, `[1, "a"]`},
		{"array_range", []value.Value{n(4)}, "[0, 1, 2, 3]"},

		{"string_length", []value.Value{s("héllo")}, "5"},
		{"string_concat", []value.Value{s("a"), n(1), arr(s("b"))}, `a1["b"]`},
		{"string_substring", []value.Value{s("héllo"), n(1), n(3)}, "éll"},
		{"string_contains", []value.Value{s("hello"), s("ell")}, "true"},
		{"string_replace", []value.Value{s("a-b-c"), s("-"), s("+")}, "a+b+c"},
		{"string_to_upper", []value.Value{s("abc")}, "ABC"},
		{"string_to_lower", []value.Value{s("ABC")}, "abc"},
		{"string_trim", []value.Value{s("  x ")}, "x"},
		{"string_starts_with", []value.Value{s("hello"), s("he")}, "true"},
		{"string_ends_with", []value.Value{s("hello"), s("he")}, "false"},
		{"string_split", []value.Value{s("a,b"), s(",")}, `["a", "b"]`},
		{"string_from_number", []value.Value{n(-42)}, "-42"},
		{"number_from_string", []value.Value{s(" 17 ")}, "17"},

		{"object_to_string", []value.Value{obj}, "{a: 1, b: 2}"},
		{"object_keys", []value.Value{obj}, `["a", "b"]`},
		{"object_values", []value.Value{obj}, "[1, 2]"},
		{"object_has_property", []value.Value{obj, s("b")}, "true"},
		{"object_merge", []value.Value{obj, value.Object(map[string]value.Value{"b": n(5), "c": n(6)})}, "{a: 1, b: 5, c: 6}"},
		{"object_create", []value.Value{s("k"), n(1)}, "{k: 1}"},

		{"json_parse", []value.Value{s(`{"list": [1, true, null], "name": "x"}`)}, `{list: [1, true, null], name: "x"}`},
		{"json_stringify", []value.Value{arr(n(1), s("a"), value.Null())}, `[1,"a",null]`},

		{"type_of", []value.Value{obj}, "object"},
		{"is_null", []value.Value{value.Null()}, "true"},
	}
	for _, tt := range tests {
		got, err := call(t, tbl, tt.name, tt.args...)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if got.Display() != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, got.Display(), tt.want)
		}
	}
}

func TestNativesRejectBadInput(t *testing.T) {
	tbl := New(Env{Out: &bytes.Buffer{}})
	tests := []struct {
		name string
		args []value.Value
		msg  string
	}{
		{"math_divide", []value.Value{n(1), n(0)}, "division by zero"},
		{"math_modulo", []value.Value{n(1), n(0)}, "modulo by zero"},
		{"math_add", []value.Value{n(2147483647), n(1)}, "out of range"},
		{"math_power", []value.Value{n(10), n(12)}, "overflows"},
		{"math_abs", []value.Value{n(-2147483648)}, "out of range"},
		{"math_add", []value.Value{n(1), s("2")}, "argument 2 must be a number"},
		{"math_add", []value.Value{n(1)}, "expected 2 argument(s)"},
		{"array_get", []value.Value{arr(n(1)), n(3)}, "out of bounds"},
		{"array_pop", []value.Value{arr()}, "empty array"},
		{"array_slice", []value.Value{arr(n(1)), n(1), n(0)}, "invalid slice"},
		{"string_substring", []value.Value{s("abc"), n(2), n(5)}, "out of range"},
		{"number_from_string", []value.Value{s("12x")}, "not a 32-bit integer"},
		{"object_create", []value.Value{s("k")}, "key/value pairs"},
		{"json_parse", []value.Value{s("{")}, "invalid JSON"},
		{"json_parse", []value.Value{s("1.5")}, "not an integer"},
		{"assert_equal", []value.Value{n(1), n(2)}, "assertion failed"},
		{"assert_true", []value.Value{n(1)}, "assertion failed"},
	}
	for _, tt := range tests {
		_, err := call(t, tbl, tt.name, tt.args...)
		if err == nil {
			t.Errorf("%s(%v): expected error", tt.name, tt.args)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.msg)
		}
	}
}

func TestArrayNativesDoNotMutateInput(t *testing.T) {
	tbl := New(Env{Out: &bytes.Buffer{}})
	orig := arr(n(1), n(2))
	if _, err := call(t, tbl, "array_set", orig, n(0), n(9)); err != nil {
		t.Fatal(err)
	}
	if _, err := call(t, tbl, "array_push", orig, n(3)); err != nil {
		t.Fatal(err)
	}
	if got := orig.Display(); got != "[1, 2]" {
		t.Fatalf("input array changed to %s", got)
	}
}

func TestDumpWritesToEnvOutput(t *testing.T) {
	var out bytes.Buffer
	tbl := New(Env{Out: &out})
	if _, err := call(t, tbl, "dump", s("x"), n(1)); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "string(\"x\") number(1)\n" {
		t.Fatalf("dump wrote %q", got)
	}
}

func TestTableNames(t *testing.T) {
	names := New(Env{}).Names()
	for _, want := range []string{"array_push", "http_get", "json_parse", "read_file", "thread_channel"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("native %s missing from %v", want, names)
		}
	}
	if diff := cmp.Diff(names, New(Env{}).Names()); diff != "" {
		t.Errorf("Names() is not stable:\n%s", diff)
	}
}

package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDisplay(t *testing.T) {
	obj := Object(map[string]Value{
		"name": String("Ada"),
		"tags": Array([]Value{String("x"), Number(2)}),
		"meta": Object(map[string]Value{"ok": Bool(true), "none": Null()}),
	})
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Number(-12), "-12"},
		{Bool(false), "false"},
		{String("plain text"), "plain text"},
		{Array(nil), "[]"},
		{Array([]Value{String("a"), Number(1)}), `["a", 1]`},
		{obj, `{meta: {none: null, ok: true}, name: "Ada", tags: ["x", 2]}`},
		{Func(&FuncRef{Name: "m.inc"}), "<function m.inc>"},
	}
	for _, tt := range tests {
		if got := tt.v.Display(); got != tt.want {
			t.Errorf("Display() = %q, want %q", got, tt.want)
		}
	}
	if got := String("s").Repr(); got != `"s"` {
		t.Errorf("Repr() = %q", got)
	}
}

func TestEqual(t *testing.T) {
	a := Object(map[string]Value{"k": Array([]Value{Number(1), String("x")})})
	b := Object(map[string]Value{"k": Array([]Value{Number(1), String("x")})})
	if !Equal(a, b) {
		t.Fatal("structurally equal objects compared unequal")
	}
	b.Obj["k"].Arr[1] = String("y")
	if Equal(a, b) {
		t.Fatal("objects with different nested values compared equal")
	}
	if Equal(Number(1), String("1")) {
		t.Fatal("values of different kinds compared equal")
	}
	if !Equal(Null(), Null()) {
		t.Fatal("null != null")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Object(map[string]Value{
		"list": Array([]Value{Number(1)}),
		"sub":  Object(map[string]Value{"x": Number(1)}),
	})
	cp := orig.Clone()
	cp.Obj["list"].Arr[0] = Number(9)
	cp.Obj["sub"].Obj["x"] = Number(9)

	if got := orig.Display(); got != "{list: [1], sub: {x: 1}}" {
		t.Fatalf("clone shares storage with original: %s", got)
	}
}

func TestFromAnyAndBack(t *testing.T) {
	in := map[string]any{
		"n":    float64(3),
		"s":    "x",
		"list": []any{true, nil},
	}
	v, err := FromAny(in)
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	want := map[string]any{
		"n":    int32(3),
		"s":    "x",
		"list": []any{true, nil},
	}
	if diff := cmp.Diff(want, v.Any()); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}

	for _, bad := range []any{1.5, float64(1 << 40), struct{}{}} {
		if _, err := FromAny(bad); err == nil {
			t.Errorf("FromAny(%v): expected error", bad)
		}
	}
}

package value

import "sort"

type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindArray
	KindObject
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	default:
		return "null"
	}
}

// FuncRef is a first-class reference to a user function. Impl is owned by
// the interpreter; Name is what the reference displays as.
type FuncRef struct {
	Name string
	Impl any
}

// Value is a fully evaluated script value. Arrays and objects behave as
// values: code that mutates one must work on a Clone.
type Value struct {
	Kind Kind
	Num  int32
	Str  string
	Bool bool
	Arr  []Value
	Obj  map[string]Value
	Fn   *FuncRef
}

func Null() Value             { return Value{Kind: KindNull} }
func Number(n int32) Value    { return Value{Kind: KindNumber, Num: n} }
func String(s string) Value   { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func Func(ref *FuncRef) Value { return Value{Kind: KindFunction, Fn: ref} }
func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindArray, Arr: elems}
}

func Object(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Kind: KindObject, Obj: m}
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// Keys returns an object's keys in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.Obj))
	for k := range v.Obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies arrays and objects. Function references are shared.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindArray:
		out := make([]Value, len(v.Arr))
		for i, el := range v.Arr {
			out[i] = el.Clone()
		}
		return Array(out)
	case KindObject:
		out := make(map[string]Value, len(v.Obj))
		for k, el := range v.Obj {
			out[k] = el.Clone()
		}
		return Object(out)
	default:
		return v
	}
}

// Equal is structural equality. Values of different kinds are never equal.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindArray:
		if len(a.Arr) != len(b.Arr) {
			return false
		}
		for i := range a.Arr {
			if !Equal(a.Arr[i], b.Arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Obj) != len(b.Obj) {
			return false
		}
		for k, av := range a.Obj {
			bv, ok := b.Obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindFunction:
		return a.Fn == b.Fn
	}
	return false
}

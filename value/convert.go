package value

import (
	"math"

	"github.com/pkg/errors"
)

// FromAny converts decoded data (as produced by a JSON decoder) into a
// Value. Numbers must be whole and fit in 32 bits.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return FromInt64(int64(t))
	case int32:
		return Number(t), nil
	case int64:
		return FromInt64(t)
	case float64:
		if t != math.Trunc(t) {
			return Value{}, errors.Errorf("number %v is not an integer", t)
		}
		return FromInt64(int64(t))
	case []any:
		out := make([]Value, 0, len(t))
		for _, el := range t {
			v, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}
			out = append(out, v)
		}
		return Array(out), nil
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, el := range t {
			v, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}
			out[k] = v
		}
		return Object(out), nil
	default:
		return Value{}, errors.Errorf("unsupported value of type %T", x)
	}
}

// FromInt64 narrows n to a Number, failing when it overflows int32.
func FromInt64(n int64) (Value, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return Value{}, errors.Errorf("number %d is out of range", n)
	}
	return Number(int32(n)), nil
}

// Any is the inverse of FromAny. Function references become their name.
func (v Value) Any() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	case KindBool:
		return v.Bool
	case KindArray:
		out := make([]any, len(v.Arr))
		for i, el := range v.Arr {
			out[i] = el.Any()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Obj))
		for k, el := range v.Obj {
			out[k] = el.Any()
		}
		return out
	case KindFunction:
		return v.Repr()
	default:
		return nil
	}
}

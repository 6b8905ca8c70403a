package value

import (
	"strconv"
	"strings"
)

// Display renders v the way `print` shows it: a top-level string is its raw
// text, while strings nested in arrays and objects are quoted.
func (v Value) Display() string {
	if v.Kind == KindString {
		return v.Str
	}
	return v.Repr()
}

// Repr is the structural rendering, with strings always quoted.
func (v Value) Repr() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case KindNumber:
		b.WriteString(strconv.FormatInt(int64(v.Num), 10))
	case KindString:
		b.WriteByte('"')
		b.WriteString(v.Str)
		b.WriteByte('"')
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindArray:
		b.WriteByte('[')
		for i, el := range v.Arr {
			if i > 0 {
				b.WriteString(", ")
			}
			el.write(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			v.Obj[k].write(b)
		}
		b.WriteByte('}')
	case KindFunction:
		name := "anonymous"
		if v.Fn != nil && v.Fn.Name != "" {
			name = v.Fn.Name
		}
		b.WriteString("<function " + name + ">")
	default:
		b.WriteString("null")
	}
}

package stdlib

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"vx/value"
)

func stringNatives() Table {
	return Table{
		"string_length": strUnary(func(s string) (value.Value, error) {
			return value.FromInt64(int64(utf8.RuneCountInString(s)))
		}),
		"string_concat":    stringConcat,
		"string_substring": stringSubstring,
		"string_contains": strBinary(func(s, sub string) (value.Value, error) {
			return value.Bool(strings.Contains(s, sub)), nil
		}),
		"string_replace": stringReplace,
		"string_to_upper": strUnary(func(s string) (value.Value, error) {
			return value.String(strings.ToUpper(s)), nil
		}),
		"string_to_lower": strUnary(func(s string) (value.Value, error) {
			return value.String(strings.ToLower(s)), nil
		}),
		"string_trim": strUnary(func(s string) (value.Value, error) {
			return value.String(strings.TrimSpace(s)), nil
		}),
		"string_starts_with": strBinary(func(s, prefix string) (value.Value, error) {
			return value.Bool(strings.HasPrefix(s, prefix)), nil
		}),
		"string_ends_with": strBinary(func(s, suffix string) (value.Value, error) {
			return value.Bool(strings.HasSuffix(s, suffix)), nil
		}),
		"string_split": strBinary(func(s, sep string) (value.Value, error) {
			parts := strings.Split(s, sep)
			out := make([]value.Value, len(parts))
			for i, p := range parts {
				out[i] = value.String(p)
			}
			return value.Array(out), nil
		}),
		"string_from_number": stringFromNumber,
		"number_from_string": strUnary(func(s string) (value.Value, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
			if err != nil {
				return value.Value{}, errors.Errorf("%q is not a 32-bit integer", s)
			}
			return value.Number(int32(n)), nil
		}),
	}
}

// stringConcat is what `a + b` lowers to, so it accepts any value and uses
// the print rendering for non-strings.
func stringConcat(args []value.Value) (value.Value, error) {
	if err := atLeast(args, 2); err != nil {
		return value.Value{}, err
	}
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.Display())
	}
	return value.String(b.String()), nil
}

// stringSubstring counts start and length in characters, not bytes.
func stringSubstring(args []value.Value) (value.Value, error) {
	if err := arity(args, 3); err != nil {
		return value.Value{}, err
	}
	s, err := strArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	start, err := numArg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	length, err := numArg(args, 2)
	if err != nil {
		return value.Value{}, err
	}
	runes := []rune(s)
	if start < 0 || length < 0 || int64(start)+int64(length) > int64(len(runes)) {
		return value.Value{}, errors.Errorf("substring(%d, %d) out of range for length %d", start, length, len(runes))
	}
	return value.String(string(runes[start : start+length])), nil
}

func stringReplace(args []value.Value) (value.Value, error) {
	if err := arity(args, 3); err != nil {
		return value.Value{}, err
	}
	var parts [3]string
	for i := range parts {
		s, err := strArg(args, i)
		if err != nil {
			return value.Value{}, err
		}
		parts[i] = s
	}
	return value.String(strings.ReplaceAll(parts[0], parts[1], parts[2])), nil
}

func stringFromNumber(args []value.Value) (value.Value, error) {
	if err := arity(args, 1); err != nil {
		return value.Value{}, err
	}
	n, err := numArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strconv.Itoa(int(n))), nil
}

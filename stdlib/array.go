package stdlib

import (
	"strings"

	"github.com/pkg/errors"

	"vx/value"
)

// Array natives never modify their input; each returns a new array.
func arrayNatives() Table {
	return Table{
		"array_push":      arrayPush,
		"array_pop":       arrayPop,
		"array_length":    arrayLength,
		"array_get":       arrayGet,
		"array_set":       arraySet,
		"array_slice":     arraySlice,
		"array_join":      arrayJoin,
		"array_to_string": arrayToString,
		"array_range":     arrayRange,
	}
}

// arrayPush appends every argument after the first.
func arrayPush(args []value.Value) (value.Value, error) {
	if err := atLeast(args, 2); err != nil {
		return value.Value{}, err
	}
	arr, err := arrArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, 0, len(arr)+len(args)-1)
	out = append(out, arr...)
	out = append(out, args[1:]...)
	return value.Array(out), nil
}

// arrayPop returns the last element itself, not wrapped in an array. The
// input is not modified; pair it with array_slice to drop the element.
func arrayPop(args []value.Value) (value.Value, error) {
	if err := arity(args, 1); err != nil {
		return value.Value{}, err
	}
	arr, err := arrArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	if len(arr) == 0 {
		return value.Value{}, errors.New("pop from an empty array")
	}
	return arr[len(arr)-1], nil
}

func arrayLength(args []value.Value) (value.Value, error) {
	if err := arity(args, 1); err != nil {
		return value.Value{}, err
	}
	arr, err := arrArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromInt64(int64(len(arr)))
}

func index(arr []value.Value, args []value.Value, i int) (int, error) {
	n, err := numArg(args, i)
	if err != nil {
		return 0, err
	}
	if n < 0 || int(n) >= len(arr) {
		return 0, errors.Errorf("index %d out of bounds for length %d", n, len(arr))
	}
	return int(n), nil
}

func arrayGet(args []value.Value) (value.Value, error) {
	if err := arity(args, 2); err != nil {
		return value.Value{}, err
	}
	arr, err := arrArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	i, err := index(arr, args, 1)
	if err != nil {
		return value.Value{}, err
	}
	return arr[i], nil
}

func arraySet(args []value.Value) (value.Value, error) {
	if err := arity(args, 3); err != nil {
		return value.Value{}, err
	}
	arr, err := arrArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	i, err := index(arr, args, 1)
	if err != nil {
		return value.Value{}, err
	}
	out := append([]value.Value(nil), arr...)
	out[i] = args[2]
	return value.Array(out), nil
}

// arraySlice takes the half-open range [start, end).
func arraySlice(args []value.Value) (value.Value, error) {
	if err := arity(args, 3); err != nil {
		return value.Value{}, err
	}
	arr, err := arrArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	start, err := numArg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	end, err := numArg(args, 2)
	if err != nil {
		return value.Value{}, err
	}
	if start < 0 || start > end || int(end) > len(arr) {
		return value.Value{}, errors.Errorf("invalid slice [%d:%d] of length %d", start, end, len(arr))
	}
	return value.Array(append([]value.Value(nil), arr[start:end]...)), nil
}

func arrayJoin(args []value.Value) (value.Value, error) {
	if err := arity(args, 2); err != nil {
		return value.Value{}, err
	}
	arr, err := arrArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	sep, err := strArg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	parts := make([]string, len(arr))
	for i, el := range arr {
		parts[i] = el.Display()
	}
	return value.String(strings.Join(parts, sep)), nil
}

func arrayToString(args []value.Value) (value.Value, error) {
	if err := arity(args, 1); err != nil {
		return value.Value{}, err
	}
	if _, err := arrArg(args, 0); err != nil {
		return value.Value{}, err
	}
	return value.String(args[0].Repr()), nil
}

// arrayRange returns [0, 1, ..., n-1].
func arrayRange(args []value.Value) (value.Value, error) {
	if err := arity(args, 1); err != nil {
		return value.Value{}, err
	}
	n, err := numArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	if n < 0 {
		return value.Value{}, errors.Errorf("range length %d is negative", n)
	}
	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.Number(int32(i))
	}
	return value.Array(out), nil
}

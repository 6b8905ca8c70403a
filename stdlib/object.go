package stdlib

import (
	"github.com/pkg/errors"

	"vx/value"
)

func objectNatives() Table {
	return Table{
		"object_to_string": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			return value.String(args[0].Repr()), nil
		},
		"object_keys":         objectKeys,
		"object_values":       objectValues,
		"object_has_property": objectHasProperty,
		"object_merge":        objectMerge,
		"object_create":       objectCreate,
	}
}

// objectKeys and objectValues both follow sorted key order.
func objectKeys(args []value.Value) (value.Value, error) {
	if err := arity(args, 1); err != nil {
		return value.Value{}, err
	}
	if _, err := objArg(args, 0); err != nil {
		return value.Value{}, err
	}
	keys := args[0].Keys()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		out[i] = value.String(k)
	}
	return value.Array(out), nil
}

func objectValues(args []value.Value) (value.Value, error) {
	if err := arity(args, 1); err != nil {
		return value.Value{}, err
	}
	obj, err := objArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	keys := args[0].Keys()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		out[i] = obj[k]
	}
	return value.Array(out), nil
}

func objectHasProperty(args []value.Value) (value.Value, error) {
	if err := arity(args, 2); err != nil {
		return value.Value{}, err
	}
	obj, err := objArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	key, err := strArg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	_, ok := obj[key]
	return value.Bool(ok), nil
}

// objectMerge lets keys of the second object win.
func objectMerge(args []value.Value) (value.Value, error) {
	if err := arity(args, 2); err != nil {
		return value.Value{}, err
	}
	a, err := objArg(args, 0)
	if err != nil {
		return value.Value{}, err
	}
	b, err := objArg(args, 1)
	if err != nil {
		return value.Value{}, err
	}
	out := make(map[string]value.Value, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return value.Object(out), nil
}

// objectCreate builds an object from alternating key, value arguments.
func objectCreate(args []value.Value) (value.Value, error) {
	if len(args)%2 != 0 {
		return value.Value{}, errors.Errorf("expected key/value pairs, got %d arguments", len(args))
	}
	out := make(map[string]value.Value, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, err := strArg(args, i)
		if err != nil {
			return value.Value{}, err
		}
		out[key] = args[i+1]
	}
	return value.Object(out), nil
}

package stdlib

import (
	"github.com/oarkflow/json"
	"github.com/pkg/errors"

	"vx/value"
)

func jsonNatives() Table {
	return Table{
		"json_parse": strUnary(func(s string) (value.Value, error) {
			var decoded any
			if err := json.Unmarshal([]byte(s), &decoded); err != nil {
				return value.Value{}, errors.Wrap(err, "invalid JSON")
			}
			return value.FromAny(decoded)
		}),
		"json_stringify": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			if args[0].Kind == value.KindFunction {
				return value.Value{}, errors.New("functions cannot be encoded as JSON")
			}
			data, err := json.Marshal(args[0].Any())
			if err != nil {
				return value.Value{}, errors.Wrap(err, "encode JSON")
			}
			return value.String(string(data)), nil
		},
	}
}

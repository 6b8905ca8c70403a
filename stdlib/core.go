package stdlib

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"vx/value"
)

func coreNatives(out io.Writer) Table {
	return Table{
		"sleep": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			secs, err := numArg(args, 0)
			if err != nil {
				return value.Value{}, err
			}
			if secs < 0 {
				return value.Value{}, errors.Errorf("negative sleep %d", secs)
			}
			time.Sleep(time.Duration(secs) * time.Second)
			return value.Null(), nil
		},
		"type_of": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			return value.String(args[0].Kind.String()), nil
		},
		"is_null": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			return value.Bool(args[0].IsNull()), nil
		},
		// exec runs a program directly, without a shell; words after the
		// first are its arguments.
		"exec": strUnary(func(command string) (value.Value, error) {
			fields := strings.Fields(command)
			if len(fields) == 0 {
				return value.Value{}, errors.New("empty command")
			}
			stdout, err := exec.Command(fields[0], fields[1:]...).Output()
			if err != nil {
				return value.Value{}, errors.Wrapf(err, "exec %s", fields[0])
			}
			return value.String(string(stdout)), nil
		}),

		"dump": func(args []value.Value) (value.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = fmt.Sprintf("%s(%s)", a.Kind, a.Repr())
			}
			fmt.Fprintln(out, strings.Join(parts, " "))
			return value.Null(), nil
		},
		"assert_equal": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 2); err != nil {
				return value.Value{}, err
			}
			if !value.Equal(args[0], args[1]) {
				return value.Value{}, errors.Errorf("assertion failed: %s != %s", args[0].Repr(), args[1].Repr())
			}
			return value.Null(), nil
		},
		"assert_true": func(args []value.Value) (value.Value, error) {
			if err := arity(args, 1); err != nil {
				return value.Value{}, err
			}
			if args[0].Kind != value.KindBool || !args[0].Bool {
				return value.Value{}, errors.Errorf("assertion failed: expected true, got %s", args[0].Repr())
			}
			return value.Null(), nil
		},
	}
}

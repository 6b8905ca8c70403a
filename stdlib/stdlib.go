package stdlib

import (
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"

	"vx/value"
)

// Native is a host function callable from scripts. Arguments arrive fully
// evaluated; a returned error becomes a runtime error at the call site.
type Native func(args []value.Value) (value.Value, error)

type Table map[string]Native

// Env is the state natives share. Runtimes spawned from one another share a
// single Env so channels and output are common to all of them.
type Env struct {
	Out      io.Writer
	Channels *Hub
	HTTP     *http.Client
}

// New builds the full native table over env, filling in defaults for any
// zero field.
func New(env Env) Table {
	if env.Out == nil {
		env.Out = os.Stdout
	}
	if env.Channels == nil {
		env.Channels = NewHub()
	}
	if env.HTTP == nil {
		env.HTTP = &http.Client{Timeout: 10 * time.Second}
	}

	t := Table{}
	for _, group := range []Table{
		mathNatives(),
		arrayNatives(),
		stringNatives(),
		objectNatives(),
		jsonNatives(),
		fsNatives(),
		netNatives(env.HTTP),
		coreNatives(env.Out),
		env.Channels.natives(),
	} {
		for name, fn := range group {
			t[name] = fn
		}
	}
	return t
}

func (t Table) Lookup(name string) (Native, bool) {
	fn, ok := t[name]
	return fn, ok
}

func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func arity(args []value.Value, n int) error {
	if len(args) != n {
		return errors.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

func atLeast(args []value.Value, n int) error {
	if len(args) < n {
		return errors.Errorf("expected at least %d arguments, got %d", n, len(args))
	}
	return nil
}

func kindErr(args []value.Value, i int, want value.Kind) error {
	return errors.Errorf("argument %d must be a %s, got %s", i+1, want, args[i].Kind)
}

func numArg(args []value.Value, i int) (int32, error) {
	if args[i].Kind != value.KindNumber {
		return 0, kindErr(args, i, value.KindNumber)
	}
	return args[i].Num, nil
}

func strArg(args []value.Value, i int) (string, error) {
	if args[i].Kind != value.KindString {
		return "", kindErr(args, i, value.KindString)
	}
	return args[i].Str, nil
}

func arrArg(args []value.Value, i int) ([]value.Value, error) {
	if args[i].Kind != value.KindArray {
		return nil, kindErr(args, i, value.KindArray)
	}
	return args[i].Arr, nil
}

func objArg(args []value.Value, i int) (map[string]value.Value, error) {
	if args[i].Kind != value.KindObject {
		return nil, kindErr(args, i, value.KindObject)
	}
	return args[i].Obj, nil
}

// strUnary and strBinary adapt natives whose arguments are all strings.
func strUnary(f func(s string) (value.Value, error)) Native {
	return func(args []value.Value) (value.Value, error) {
		if err := arity(args, 1); err != nil {
			return value.Value{}, err
		}
		s, err := strArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		return f(s)
	}
}

func strBinary(f func(a, b string) (value.Value, error)) Native {
	return func(args []value.Value) (value.Value, error) {
		if err := arity(args, 2); err != nil {
			return value.Value{}, err
		}
		a, err := strArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		b, err := strArg(args, 1)
		if err != nil {
			return value.Value{}, err
		}
		return f(a, b)
	}
}

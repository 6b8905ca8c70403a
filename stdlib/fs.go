package stdlib

import (
	"os"
	"sort"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"vx/value"
)

func fsNatives() Table {
	return Table{
		"read_file": strUnary(func(path string) (value.Value, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return value.Value{}, errors.Wrapf(err, "read %s", path)
			}
			return value.String(string(data)), nil
		}),
		"write_file": strBinary(func(path, content string) (value.Value, error) {
			return value.Null(), withLock(path, func() error {
				return os.WriteFile(path, []byte(content), 0o644)
			})
		}),
		"append_file": strBinary(func(path, content string) (value.Value, error) {
			return value.Null(), withLock(path, func() error {
				f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				if _, err := f.WriteString(content); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			})
		}),
		"file_exists": strUnary(func(path string) (value.Value, error) {
			_, err := os.Stat(path)
			return value.Bool(err == nil), nil
		}),
		"delete_file": strUnary(func(path string) (value.Value, error) {
			if err := os.Remove(path); err != nil {
				return value.Value{}, errors.Wrapf(err, "delete %s", path)
			}
			return value.Null(), nil
		}),
		"rename_file": strBinary(func(from, to string) (value.Value, error) {
			if err := os.Rename(from, to); err != nil {
				return value.Value{}, errors.Wrapf(err, "rename %s", from)
			}
			return value.Null(), nil
		}),
		"create_dir": strUnary(func(path string) (value.Value, error) {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return value.Value{}, errors.Wrapf(err, "create %s", path)
			}
			return value.Null(), nil
		}),
		"list_dir": strUnary(func(path string) (value.Value, error) {
			entries, err := os.ReadDir(path)
			if err != nil {
				return value.Value{}, errors.Wrapf(err, "list %s", path)
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			sort.Strings(names)
			out := make([]value.Value, len(names))
			for i, n := range names {
				out[i] = value.String(n)
			}
			return value.Array(out), nil
		}),
	}
}

// withLock holds an advisory lock on path while fn writes it, so concurrent
// script threads writing the same file do not interleave.
func withLock(path string, fn func() error) error {
	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "lock %s", path)
	}
	defer func() { _ = lock.Unlock() }()
	if err := fn(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

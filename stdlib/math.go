package stdlib

import (
	"math"

	"github.com/pkg/errors"

	"vx/value"
)

func mathNatives() Table {
	return Table{
		"math_add":      numBinary(func(a, b int64) (int64, error) { return a + b, nil }),
		"math_subtract": numBinary(func(a, b int64) (int64, error) { return a - b, nil }),
		"math_multiply": numBinary(func(a, b int64) (int64, error) { return a * b, nil }),
		"math_divide": numBinary(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, errors.New("division by zero")
			}
			return a / b, nil
		}),
		"math_modulo": numBinary(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, errors.New("modulo by zero")
			}
			return a % b, nil
		}),
		"math_power": numBinary(power),
		"math_sqrt": numUnary(func(a int64) (int64, error) {
			if a < 0 {
				return 0, errors.New("square root of a negative number")
			}
			return int64(math.Sqrt(float64(a))), nil
		}),
		"math_abs": numUnary(func(a int64) (int64, error) {
			if a < 0 {
				return -a, nil
			}
			return a, nil
		}),
	}
}

// power stops multiplying as soon as the result leaves the 32-bit range.
func power(base, exp int64) (int64, error) {
	if exp < 0 {
		return 0, errors.New("negative exponent")
	}
	switch base {
	case 0, 1:
		if exp == 0 {
			return 1, nil
		}
		return base, nil
	case -1:
		if exp%2 == 0 {
			return 1, nil
		}
		return -1, nil
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
		if result > math.MaxInt32 || result < math.MinInt32 {
			return 0, errors.Errorf("%d^%d overflows", base, exp)
		}
	}
	return result, nil
}

// Arithmetic runs in 64 bits and is narrowed back, so overflow is reported
// instead of wrapping.
func numBinary(f func(a, b int64) (int64, error)) Native {
	return func(args []value.Value) (value.Value, error) {
		if err := arity(args, 2); err != nil {
			return value.Value{}, err
		}
		a, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		b, err := numArg(args, 1)
		if err != nil {
			return value.Value{}, err
		}
		n, err := f(int64(a), int64(b))
		if err != nil {
			return value.Value{}, err
		}
		return value.FromInt64(n)
	}
}

func numUnary(f func(a int64) (int64, error)) Native {
	return func(args []value.Value) (value.Value, error) {
		if err := arity(args, 1); err != nil {
			return value.Value{}, err
		}
		a, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		n, err := f(int64(a))
		if err != nil {
			return value.Value{}, err
		}
		return value.FromInt64(n)
	}
}

package value

import (
	"fmt"
	"strconv"
)

// ErrUnsupportedNativeOperand is raised when an operator or coercion is
// attempted over a native value: rather than silently coerce, operators
// raise (decided in DESIGN.md).
type ErrUnsupportedNativeOperand struct {
	Op string
}

func (e *ErrUnsupportedNativeOperand) Error() string {
	return fmt.Sprintf("operator %q is not supported on native values", e.Op)
}

// Add, Sub, Mul, Div implement the arithmetic operators. Numeric operands
// are promoted to f64 if either side is f64; string "+" concatenates;
// everything else is a type error.
func Add(a, b Value) (Value, error) {
	if a.Kind == KindString || b.Kind == KindString {
		if a.Kind != KindString || b.Kind != KindString {
			return None, fmt.Errorf("cannot add %s and %s", a.Kind, b.Kind)
		}
		return String(a.Str + b.Str), nil
	}
	return numericOp(a, b, "+", func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

func Sub(a, b Value) (Value, error) {
	return numericOp(a, b, "-", func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
}

func Mul(a, b Value) (Value, error) {
	return numericOp(a, b, "*", func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

func Div(a, b Value) (Value, error) {
	if a.Kind == KindI64 && b.Kind == KindI64 {
		if b.I64 == 0 {
			return None, fmt.Errorf("division by zero")
		}
		return I64(a.I64 / b.I64), nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return None, opTypeError("/", a, b)
	}
	if bf == 0 {
		return None, fmt.Errorf("division by zero")
	}
	return F64(af / bf), nil
}

func numericOp(a, b Value, op string, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) (Value, error) {
	if a.Kind == KindI64 && b.Kind == KindI64 {
		return I64(intOp(a.I64, b.I64)), nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return None, opTypeError(op, a, b)
	}
	return F64(floatOp(af, bf)), nil
}

func asFloat(v Value) (float64, bool) {
	switch v.Kind {
	case KindI64:
		return float64(v.I64), true
	case KindF64:
		return v.F64, true
	default:
		return 0, false
	}
}

func opTypeError(op string, a, b Value) error {
	if a.Kind == KindNative || b.Kind == KindNative {
		return &ErrUnsupportedNativeOperand{Op: op}
	}
	return fmt.Errorf("operator %q not supported between %s and %s", op, a.Kind, b.Kind)
}

// Equal implements "==". A native operand, even compared with itself,
// raises ErrUnsupportedNativeOperand, since the VM must never inspect
// native's opaque payload.
func Equal(a, b Value) (Value, error) {
	if a.Kind == KindNative || b.Kind == KindNative {
		return None, &ErrUnsupportedNativeOperand{Op: "=="}
	}
	if a.Kind != b.Kind {
		// Allow cross-numeric-kind comparison (1 == 1.0).
		af, aok := asFloat(a)
		bf, bok := asFloat(b)
		if aok && bok {
			return Bool(af == bf), nil
		}
		return Bool(false), nil
	}
	switch a.Kind {
	case KindNone:
		return Bool(true), nil
	case KindI64:
		return Bool(a.I64 == b.I64), nil
	case KindF64:
		return Bool(a.F64 == b.F64), nil
	case KindBool:
		return Bool(a.Bool == b.Bool), nil
	case KindString:
		return Bool(a.Str == b.Str), nil
	default:
		return Bool(false), nil
	}
}

// Compare implements the ordering operators < > <= >= over numeric and
// string operands.
func Compare(op string, a, b Value) (Value, error) {
	if a.Kind == KindString && b.Kind == KindString {
		switch op {
		case "<":
			return Bool(a.Str < b.Str), nil
		case ">":
			return Bool(a.Str > b.Str), nil
		case "<=":
			return Bool(a.Str <= b.Str), nil
		case ">=":
			return Bool(a.Str >= b.Str), nil
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return None, opTypeError(op, a, b)
	}
	switch op {
	case "<":
		return Bool(af < bf), nil
	case ">":
		return Bool(af > bf), nil
	case "<=":
		return Bool(af <= bf), nil
	case ">=":
		return Bool(af >= bf), nil
	default:
		return None, fmt.Errorf("unknown comparison operator %q", op)
	}
}

// And, Or implement && and || over truthiness. They are the && and ||
// bridge operators; the compiler evaluates both operands before the call,
// so neither operator short-circuits.
func And(a, b Value) (Value, error) { return Bool(Truthy(a) && Truthy(b)), nil }
func Or(a, b Value) (Value, error)  { return Bool(Truthy(a) || Truthy(b)), nil }

// CoerceInt implements Int.init's coercion table.
func CoerceInt(v Value) (Value, error) {
	switch v.Kind {
	case KindI64:
		return v, nil
	case KindF64:
		return I64(int64(v.F64)), nil
	case KindBool:
		if v.Bool {
			return I64(1), nil
		}
		return I64(0), nil
	case KindString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return None, fmt.Errorf("cannot coerce %q to Int: %w", v.Str, err)
		}
		return I64(n), nil
	case KindNative:
		return None, &ErrUnsupportedNativeOperand{Op: "Int.init"}
	default:
		return None, fmt.Errorf("cannot coerce %s to Int", v.Kind)
	}
}

// CoerceDouble implements Double.init's coercion table.
func CoerceDouble(v Value) (Value, error) {
	switch v.Kind {
	case KindF64:
		return v, nil
	case KindI64:
		return F64(float64(v.I64)), nil
	case KindBool:
		if v.Bool {
			return F64(1), nil
		}
		return F64(0), nil
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return None, fmt.Errorf("cannot coerce %q to Double: %w", v.Str, err)
		}
		return F64(f), nil
	case KindNative:
		return None, &ErrUnsupportedNativeOperand{Op: "Double.init"}
	default:
		return None, fmt.Errorf("cannot coerce %s to Double", v.Kind)
	}
}

// CoerceBool implements Bool.init's coercion table, built on Truthy for
// every kind it accepts and rejecting native explicitly for symmetry with
// the other coercions.
func CoerceBool(v Value) (Value, error) {
	if v.Kind == KindNative {
		return None, &ErrUnsupportedNativeOperand{Op: "Bool.init"}
	}
	return Bool(Truthy(v)), nil
}

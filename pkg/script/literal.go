package script

import (
	"fmt"
	"strconv"
)

// ParseLiteral converts a raw token into a typed value: boolean literal,
// else integer, else float, else string, in that priority order.
func ParseLiteral(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Display renders a value in its substitution string form.
func Display(v any) string {
	return fmt.Sprintf("%v", v)
}

// Compare totally orders two literals, returning <0, 0 or >0.
//
// An ordering is defined only for string/string, bool/bool and numeric
// pairs (int and float64 in any combination). Everything else is
// ErrTypeMismatch: the comparison is fatal, not silently false.
func Compare(a, b any) (int, error) {
	switch lhs := a.(type) {
	case string:
		if rhs, ok := b.(string); ok {
			switch {
			case lhs < rhs:
				return -1, nil
			case lhs > rhs:
				return 1, nil
			}
			return 0, nil
		}
	case bool:
		if rhs, ok := b.(bool); ok {
			return boolToInt(lhs) - boolToInt(rhs), nil
		}
	case int:
		switch rhs := b.(type) {
		case int:
			return lhs - rhs, nil
		case float64:
			return compareFloats(float64(lhs), rhs), nil
		}
	case float64:
		switch rhs := b.(type) {
		case int:
			return compareFloats(lhs, float64(rhs)), nil
		case float64:
			return compareFloats(lhs, rhs), nil
		}
	}

	return 0, fmt.Errorf("%w: %T and %T", ErrTypeMismatch, a, b)
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

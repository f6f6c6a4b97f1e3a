package table

import (
	"errors"
	"fmt"
	"strconv"
)

// Value is a single table cell. Supported kinds are string, float64, int64 and
// bool; anything else is accepted only if it implements Keyer.
type Value any

// Keyer lets non-scalar values participate in duplicate detection by
// providing their own canonical key.
type Keyer interface {
	Key() string
}

// ErrColumnNotFound is returned when a column name does not exist in a table.
var ErrColumnNotFound = errors.New("column not found")

// ErrNonNumeric is returned when a numeric operation hits a non-numeric cell.
var ErrNonNumeric = errors.New("non-numeric value")

// AsFloat converts a numeric cell to float64. Bool counts as numeric (false 0,
// true 1). Strings are never coerced; threshold semantics on categorical data
// are an error, not a guess.
func AsFloat(v Value) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrNonNumeric, v, v)
	}
}

// Key returns a canonical comparable key for a cell. Numeric cells of equal
// value share a key regardless of their Go type, so int64(1) and float64(1)
// compare equal in duplicate detection, matching numeric column semantics.
// Every key carries a kind prefix, Keyer output included, so no key a user
// can produce escapes the namespace.
func Key(v Value) string {
	switch x := v.(type) {
	case Keyer:
		return "k:" + x.Key()
	case string:
		return "s:" + x
	case float64:
		return "n:" + strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return "n:" + strconv.FormatFloat(float64(x), 'g', -1, 64)
	case int:
		return "n:" + strconv.FormatFloat(float64(x), 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	default:
		return fmt.Sprintf("?:%T:%v", v, v)
	}
}

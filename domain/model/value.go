// Package model provides domain model for sheetql
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// ErrUnsupportedValue is returned when a value cannot be stored in a cell
var ErrUnsupportedValue = errors.New("unsupported cell value")

// Value is a single cell value.
// After normalization it is one of string, float64, bool or nil (blank).
type Value = any

// Normalize converts v into one of the cell value kinds.
// Integers and float32 become float64, time.Time becomes RFC3339 text, and
// maps, slices and structs are stored as their JSON text.
func Normalize(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case bool:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, x)
		}
		return x, nil
	case float32:
		return Normalize(float64(x))
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case time.Time:
		return x.Format(time.RFC3339), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %T: %w", ErrUnsupportedValue, v, err)
		}
		return string(b), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// IsScalar reports whether v can take part in an equality match.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// Equal compares two values strictly: no conversion between strings,
// numbers and booleans. nil equals nil and the empty string, since a blank
// cell is read back as either depending on the host.
func Equal(a, b Value) bool {
	a, b = blankToNil(a), blankToNil(b)
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	default:
		return reflect.DeepEqual(a, b)
	}
}

// IsBlank reports whether v is an empty cell.
func IsBlank(v Value) bool {
	return blankToNil(v) == nil
}

// String renders v as cell text.
func String(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		n, err := Normalize(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return String(n)
	}
}

func blankToNil(v Value) Value {
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	if n, err := Normalize(v); err == nil && IsScalar(v) {
		return n
	}
	return v
}

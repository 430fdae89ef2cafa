package property

import (
	"fmt"
	"reflect"
	"strconv"
)

// StringProperty coerces assigned values to text.
type StringProperty struct {
	Base
}

// NewString creates a string property.
func NewString(opts Options) *StringProperty {
	p := &StringProperty{Base: newBase(opts)}
	p.coerce = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return toText(v), nil
	}
	return p
}

// IntegerProperty coerces assigned values to int64.
type IntegerProperty struct {
	Base
}

// NewInteger creates an integer property.
func NewInteger(opts Options) *IntegerProperty {
	p := &IntegerProperty{Base: newBase(opts)}
	p.coerce = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	p.check = func(v any) bool {
		if v == nil {
			return true
		}
		_, err := toInt64(v)
		return err == nil
	}
	return p
}

// FloatProperty coerces assigned values to float64.
type FloatProperty struct {
	Base
}

// NewFloat creates a float property.
func NewFloat(opts Options) *FloatProperty {
	p := &FloatProperty{Base: newBase(opts)}
	p.coerce = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	p.check = func(v any) bool {
		if v == nil {
			return true
		}
		_, err := toFloat64(v)
		return err == nil
	}
	return p
}

// BooleanProperty coerces assigned values to bool by truthiness.
type BooleanProperty struct {
	Base
}

// NewBoolean creates a boolean property.
func NewBoolean(opts Options) *BooleanProperty {
	p := &BooleanProperty{Base: newBase(opts)}
	p.coerce = func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return toBool(v), nil
	}
	return p
}

// DynamicProperty accepts any value unchanged. Useful for schemaless
// fields; configured validators still apply.
type DynamicProperty struct {
	Base
}

// NewDynamic creates a dynamic property.
func NewDynamic(opts Options) *DynamicProperty {
	return &DynamicProperty{Base: newBase(opts)}
}

// toText renders a value as a string.
func toText(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// toInt64 converts numeric kinds, bools, and decimal strings to int64.
// Floats are truncated toward zero.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, typeErr("cannot convert %q to integer", n)
		}
		return parsed, nil
	default:
		return 0, typeErr("cannot convert %T to integer", v)
	}
}

// toFloat64 converts numeric kinds, bools, and numeric strings to float64.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, typeErr("cannot convert %q to float", n)
		}
		return parsed, nil
	default:
		return 0, typeErr("cannot convert %T to float", v)
	}
}

// toBool evaluates truthiness: false for zero numbers, empty strings,
// and empty containers; true otherwise.
func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b != ""
	}
	if f, err := toFloat64(v); err == nil {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// isInteger reports whether v is an integer-kinded value, including
// float64 carrying an integral value (the shape JSON and attributevalue
// decoding produce for stored indexes).
func isInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case float32:
		if float64(n) == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

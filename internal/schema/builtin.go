package schema

import (
	"fmt"
	"math"
	"strconv"

	config "github.com/hanpama/graphcore/internal/config"
)

var String = MustScalar(config.Options{
	"name":        "String",
	"description": "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
	"coerce":      CoerceFunc(coerceString),
})

var Int = MustScalar(config.Options{
	"name":        "Int",
	"description": "The `Int` scalar type represents non-fractional signed whole numeric values.",
	"coerce":      CoerceFunc(coerceInt),
})

var Float = MustScalar(config.Options{
	"name":        "Float",
	"description": "The `Float` scalar type represents signed double-precision fractional values.",
	"coerce":      CoerceFunc(coerceFloat),
})

var Boolean = MustScalar(config.Options{
	"name":        "Boolean",
	"description": "The `Boolean` scalar type represents `true` or `false`.",
	"coerce":      CoerceFunc(coerceBoolean),
})

var ID = MustScalar(config.Options{
	"name":        "ID",
	"description": "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
	"coerce":      CoerceFunc(coerceID),
})

var builtinScalars = []*Type{String, Int, Float, Boolean, ID}

// IsBuiltin reports whether t is one of the specified scalars.
func IsBuiltin(t *Type) bool {
	for _, b := range builtinScalars {
		if b == t {
			return true
		}
	}
	return false
}

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	}
	return fmt.Sprintf("%v", value), nil
}

func coerceInt(value any) (any, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	case float32:
		if float32(int64(v)) != v {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
		}
		n = int64(v)
	case float64:
		if float64(int64(v)) != v {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
		}
		n = int64(v)
	case bool:
		if v {
			n = 1
		}
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %q", v)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("Int cannot represent value: %v (%T)", value, value)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
	}
	return int(n), nil
}

func coerceFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("Float cannot represent value: %v (%T)", value, value)
}

func coerceBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent value: %v (%T)", value, value)
}

func coerceID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %v (%T)", value, value)
}

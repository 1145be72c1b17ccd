package utils

import (
	"encoding/json"
	"math"
	"strings"
)

// ToInt64 converts a decoded JSON value to int64.
// Only numeric values are accepted: json.Number, float64 and the native integer
// types. Strings, booleans and nil report false.
func ToInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case float32:
		return ToInt64(float64(v))
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	default:
		return 0, false
	}
}

// ToString returns val when it is a string.
func ToString(val any) (string, bool) {
	s, ok := val.(string)
	return s, ok
}

// ToBool converts common truthy spellings to bool.
// It handles bool and strings ("1", "true", "yes", "on").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	default:
		return false
	}
}

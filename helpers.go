package pate

import (
	"fmt"

	"github.com/reglet-dev/pate/bridge"
	"github.com/reglet-dev/pate/domain/errors"
)

// Dict is a guest dictionary exported to Go. Guest numbers arrive as int64
// or float64, arrays as []interface{} and nested dictionaries as
// map[string]interface{}.
type Dict map[string]interface{}

// DictOf exports a guest dictionary. It returns false when v does not hold a
// plain guest object.
func DictOf(v *bridge.Value) (Dict, bool) {
	m, ok := v.Export().(map[string]interface{})
	if !ok {
		return nil, false
	}
	return Dict(m), true
}

// GetString safely extracts a string value from a Dict.
func GetString(d Dict, key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// GetInt safely extracts an integer from a Dict. Floats with a fractional
// part are rejected.
func GetInt(d Dict, key string) (int, bool) {
	switch n := d[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// GetFloat safely extracts a number from a Dict.
func GetFloat(d Dict, key string) (float64, bool) {
	switch n := d[key].(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// GetBool safely extracts a bool value from a Dict.
func GetBool(d Dict, key string) (bool, bool) {
	b, ok := d[key].(bool)
	return b, ok
}

// GetStringSlice extracts a guest array of strings.
func GetStringSlice(d Dict, key string) ([]string, bool) {
	arr, ok := d[key].([]interface{})
	if !ok {
		return nil, false
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}
	return result, true
}

// GetDict extracts a nested dictionary, such as one configuration group.
func GetDict(d Dict, key string) (Dict, bool) {
	m, ok := d[key].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return Dict(m), true
}

// MustGetString extracts a string value or returns a *errors.ConfigError.
func MustGetString(d Dict, key string) (string, error) {
	s, ok := GetString(d, key)
	if !ok {
		return "", &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required string field '%s' is missing or not a string", key),
		}
	}
	return s, nil
}

// MustGetInt extracts an integer or returns a *errors.ConfigError.
func MustGetInt(d Dict, key string) (int, error) {
	i, ok := GetInt(d, key)
	if !ok {
		return 0, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required int field '%s' is missing or not an integer", key),
		}
	}
	return i, nil
}

// GetStringDefault extracts a string value with a default.
func GetStringDefault(d Dict, key, defaultValue string) string {
	if s, ok := GetString(d, key); ok {
		return s
	}
	return defaultValue
}

// GetIntDefault extracts an integer with a default.
func GetIntDefault(d Dict, key string, defaultValue int) int {
	if i, ok := GetInt(d, key); ok {
		return i
	}
	return defaultValue
}

// GetBoolDefault extracts a bool value with a default.
func GetBoolDefault(d Dict, key string, defaultValue bool) bool {
	if b, ok := GetBool(d, key); ok {
		return b
	}
	return defaultValue
}

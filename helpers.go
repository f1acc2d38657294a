package senfi

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Record is a loosely typed object returned by the API, such as a site,
// an asset or an event definition. Use the Get helpers to read fields.
type Record map[string]any

// TagFilter selects assets by measurement code and tag values.
type TagFilter struct {
	MeasurementCode string            `json:"measurement_code"`
	Tag             map[string]string `json:"tag,omitempty"`
}

// Point is a position in site coordinates.
type Point struct {
	X, Y, Z float64
}

// fieldAs decodes a required top-level field of a successful response.
func fieldAs[T any](resp *Response, name string) (T, error) {
	var v T
	if !resp.Has(name) {
		return v, &Error{Code: KindServerError, Message: fmt.Sprintf("response has no %q field", name), Status: resp.Status, Response: resp}
	}
	if !resp.Field(name, &v) {
		return v, &Error{Code: KindServerError, Message: fmt.Sprintf("failed to parse %q field (body: %s)", name, truncatePreview(resp.Raw())), Status: resp.Status, Response: resp}
	}
	return v, nil
}

// optionalField decodes a top-level field, leaving the zero value when it is absent or null.
func optionalField[T any](resp *Response, name string) T {
	var v T
	resp.Field(name, &v)
	return v
}

// truncatePreview returns a truncated string for error messages.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

func requireString(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidArgument("%s is required", name)
	}
	return nil
}

func requireID(name string, id int) error {
	if id <= 0 {
		return invalidArgument("%s must be a positive integer", name)
	}
	return nil
}

func requireOneOf[T ~string](name string, value T, allowed ...T) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return invalidArgument("%s must be one of %s, got %q", name, strings.Join(names, ", "), string(value))
}

// GetString navigates a nested map and returns a string value.
// Returns the value and true if found, or empty string and false if not.
//
// Example:
//
//	name, ok := senfi.GetString(site, "name")
func GetString(data map[string]any, keys ...string) (string, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// GetInt navigates a nested map and returns an int value.
// Handles JSON's float64 representation of numbers.
// Returns false if the value is outside the valid int range.
//
// Example:
//
//	assetID, ok := senfi.GetInt(asset, "asset_id")
func GetInt(data map[string]any, keys ...string) (int, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		if v > float64(math.MaxInt) || v < float64(math.MinInt) || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		if v > int64(math.MaxInt) || v < int64(math.MinInt) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// GetFloat navigates a nested map and returns a float64 value.
//
// Example:
//
//	x, ok := senfi.GetFloat(asset, "position", "x")
func GetFloat(data map[string]any, keys ...string) (float64, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetBool navigates a nested map and returns a bool value.
func GetBool(data map[string]any, keys ...string) (bool, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// GetMap navigates a nested map and returns a map[string]any value.
//
// Example:
//
//	tags, ok := senfi.GetMap(asset, "tag")
func GetMap(data map[string]any, keys ...string) (map[string]any, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return nil, false
	}
	m, ok := val.(map[string]any)
	return m, ok
}

// GetArray navigates a nested map and returns a []any value.
func GetArray(data map[string]any, keys ...string) ([]any, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return nil, false
	}
	arr, ok := val.([]any)
	return arr, ok
}

// navigate walks through a nested map following the provided keys.
// Returns the final value and true if successful, or nil and false if any key is missing.
func navigate(data map[string]any, keys []string) (any, bool) {
	if len(keys) == 0 {
		return data, true
	}

	current := data
	for i, key := range keys {
		val, exists := current[key]
		if !exists {
			return nil, false
		}

		if i == len(keys)-1 {
			return val, true
		}

		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}

	return nil, false
}

// ToStringSlice converts a []any to []string, filtering out non-string values.
func ToStringSlice(arr []any) []string {
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

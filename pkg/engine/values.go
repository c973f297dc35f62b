package engine

import (
	"encoding/json"
	"fmt"
	"math"
)

// Number returns v as float64, or def when v is absent or not a JSON number
func Number(v interface{}, def float64) float64 {
	if f := OptionalNumber(v); f != nil {
		return *f
	}
	return def
}

// OptionalNumber returns v as *float64, or nil when v is absent or not a JSON number
func OptionalNumber(v interface{}) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Int returns v truncated to int, or def when v is not a JSON number or
// does not fit in an int
func Int(v interface{}, def int) int {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil && int64(int(i)) == i {
			return int(i)
		}
	}
	f := OptionalNumber(v)
	if f == nil || *f >= maxIntFloat || *f < minIntFloat {
		return def
	}
	return int(*f)
}

const (
	maxIntFloat = -float64(math.MinInt) // 2^63 or 2^31, exclusive
	minIntFloat = float64(math.MinInt)
)

// String returns v when it is a JSON string, or def otherwise
func String(v interface{}, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// Label renders any scalar as text; objects and arrays keep their JSON form
func Label(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return fmt.Sprintf("%g", s)
	case bool:
		return fmt.Sprintf("%t", s)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Object returns v as a JSON object, or nil
func Object(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// Array returns v as a JSON array, or nil
func Array(v interface{}) []interface{} {
	a, _ := v.([]interface{})
	return a
}

package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// ToFloat coerces a row value to a number. Strings are trimmed first; an
// empty or non-numeric string is not a number.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// LeadingInt parses the integer prefix of s after leading whitespace, so
// "3 units" yields 3. ok is false when s does not start with a digit.
func LeadingInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LeadingFloat is LeadingInt for decimal numbers.
func LeadingFloat(s string) (string, bool) {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\r\n"))
	return m, m != ""
}

package coerce

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// ============================================================================
// SAFE COERCION HELPERS
// Catalog cells, env values and sheet values arrive as loosely typed input.
// These helpers convert them and return a readable error instead of panicking.
// ============================================================================

// ToString converts almost anything to a string. Nil becomes "".
func ToString(input interface{}) string {
	if input == nil {
		return ""
	}
	s, err := cast.ToStringE(input)
	if err != nil {
		return fmt.Sprintf("%v", input)
	}
	return s
}

// ToInt accepts numeric strings ("123"), whole floats (123.0) and the like.
func ToInt(input interface{}) (int, error) {
	if input == nil {
		return 0, nil
	}
	i, err := cast.ToIntE(decimal(input))
	if err != nil {
		return 0, fmt.Errorf("failed to coerce value '%v' (type %T) to int", input, input)
	}
	return i, nil
}

// ToInt64 is ToInt for ids that may not fit an int32.
func ToInt64(input interface{}) (int64, error) {
	if input == nil {
		return 0, nil
	}
	i, err := cast.ToInt64E(decimal(input))
	if err != nil {
		return 0, fmt.Errorf("failed to coerce value '%v' (type %T) to int64", input, input)
	}
	return i, nil
}

// decimal drops the leading zeros of a numeric string. cast parses strings
// with base prefix detection, which would read "010" as octal.
func decimal(input interface{}) interface{} {
	s, ok := input.(string)
	if !ok {
		return input
	}
	s = strings.TrimSpace(s)
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	for len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		s = s[1:]
	}
	return sign + s
}

func ToFloat64(input interface{}) (float64, error) {
	if input == nil {
		return 0.0, nil
	}
	f, err := cast.ToFloat64E(input)
	if err != nil {
		return 0.0, fmt.Errorf("failed to coerce value '%v' (type %T) to float64", input, input)
	}
	return f, nil
}

// ToBool understands true/false, 1/0, "on"/"off" and friends.
func ToBool(input interface{}) (bool, error) {
	if input == nil {
		return false, nil
	}
	b, err := cast.ToBoolE(input)
	if err != nil {
		return false, fmt.Errorf("failed to coerce value '%v' (type %T) to bool", input, input)
	}
	return b, nil
}

// ToIntDef returns defaultVal when input is empty or not a number.
func ToIntDef(input interface{}, defaultVal int) int {
	if s, ok := input.(string); ok && s == "" {
		return defaultVal
	}
	val, err := ToInt(input)
	if err != nil {
		return defaultVal
	}
	return val
}

// ToBoolDef returns defaultVal when input is empty or not a boolean.
func ToBoolDef(input interface{}, defaultVal bool) bool {
	if s, ok := input.(string); ok && s == "" {
		return defaultVal
	}
	val, err := ToBool(input)
	if err != nil {
		return defaultVal
	}
	return val
}

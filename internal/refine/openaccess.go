// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrOpenAccessValue is returned for an open-access preference outside the
// accepted table.
var ErrOpenAccessValue = errors.New("unrecognised open-access value")

// openAccessWords is the complete table of accepted string spellings,
// compared case-insensitively after trimming.
var openAccessWords = map[string]bool{
	"yes":   true,
	"y":     true,
	"true":  true,
	"t":     true,
	"1":     true,
	"on":    true,
	"oa":    true,
	"no":    false,
	"n":     false,
	"false": false,
	"f":     false,
	"0":     false,
	"off":   false,
	"":      false,
}

// ParseOpenAccess turns a loosely-typed open-access preference into a bool.
// Accepted: nil (false), bool, the integers 0 and 1 in any numeric type, and
// the strings in openAccessWords. Anything else wraps ErrOpenAccessValue.
func ParseOpenAccess(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		if b, ok := openAccessWords[strings.ToLower(strings.TrimSpace(x))]; ok {
			return b, nil
		}
	case int:
		return intFlag(int64(x), v)
	case int32:
		return intFlag(int64(x), v)
	case int64:
		return intFlag(x, v)
	case uint64:
		if x <= 1 {
			return x == 1, nil
		}
	case float32:
		return floatFlag(float64(x), v)
	case float64:
		return floatFlag(x, v)
	}
	return false, fmt.Errorf("%w: %v (%T)", ErrOpenAccessValue, v, v)
}

func intFlag(n int64, v any) (bool, error) {
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: %v", ErrOpenAccessValue, v)
}

func floatFlag(f float64, v any) (bool, error) {
	if f != math.Trunc(f) {
		return false, fmt.Errorf("%w: %v", ErrOpenAccessValue, v)
	}
	return intFlag(int64(f), v)
}

package expr

import (
	"encoding/json"
	"math"
	"strconv"
)

// Record maps attribute names to values. Integer values (any Go integer
// type, an integral float64, or an integral json.Number) and strings are
// understood; any other value never satisfies a comparison.
type Record map[string]any

// toInt64 returns v as an int64 when it is an integer value.
func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		if uint64(val) > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case float64:
		if val != math.Trunc(val) || val < math.MinInt64 || val >= math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case json.Number:
		n, err := val.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// textOf returns the natural textual form of a record value: strings as they
// are, numbers in decimal. ok is false for any other type.
func textOf(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		if n, ok := toInt64(val); ok {
			return strconv.FormatInt(n, 10), true
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	}
	if n, ok := toInt64(v); ok {
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}

package tools

import (
	"encoding/json"
	"math"
)

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// intArg reads a numeric argument, returning def when it is absent or not a
// positive whole number. Values above limit are clamped to limit.
func intArg(args map[string]any, key string, def, limit int) int {
	var n float64
	switch v := args[key].(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def
		}
		n = f
	default:
		return def
	}
	if n < 1 || math.IsNaN(n) {
		return def
	}
	if n > float64(limit) {
		return limit
	}
	return int(n)
}

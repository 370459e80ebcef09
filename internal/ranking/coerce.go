// internal/ranking/coerce.go
package ranking

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat coerces a raw attribute value to a float. Values that are not
// finite numbers (or strings holding one) become 0.
func ToFloat(v interface{}) float64 {
	f, _ := parseFloat(v)
	return f
}

// ParseBudget returns nil when the raw budget is absent or not numeric,
// which disables budget filtering.
func ParseBudget(raw interface{}) *float64 {
	f, ok := parseFloat(raw)
	if !ok {
		return nil
	}
	return &f
}

func parseFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truthy follows the loose semantics of form input: true, non-zero numbers
// and "true"/"yes"/"on"/"1" strings count as set.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "on", "1":
			return true
		}
		return false
	default:
		return ToFloat(v) != 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

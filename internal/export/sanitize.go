// Package export packages combined GeoJSON into the frontend bundle: one
// base geometry file, per-year election JSON keyed by FIPS, and a manifest.
package export

import (
	"fmt"
	"math"
	"strings"
)

// booleanFields names properties that must come out as real booleans even
// when an upstream CSV round-trip stringified them.
var booleanFields = map[string]bool{
	"flipped": true,
}

// nullSentinels are string spellings of missing data that leak out of
// tabular tooling.
var nullSentinels = map[string]bool{
	"nan":  true,
	"none": true,
	"<na>": true,
	"nat":  true,
	"":     true,
}

// Sanitize cleans one property value for JSON export. The second return is
// false when the value is missing in any of its representations: nil,
// NaN/infinite floats, or a string null sentinel. There is no truthy
// coercion; every representation is handled by its type.
func Sanitize(prop string, value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		if v == math.Trunc(v) {
			return int64(v), true
		}
		return math.Round(v*1e6) / 1e6, true
	case float32:
		return Sanitize(prop, float64(v))
	case int:
		return int64(v), true
	case int64:
		return v, true
	case bool:
		return v, true
	case string:
		lower := strings.ToLower(v)
		switch lower {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
		if nullSentinels[lower] {
			return nil, false
		}
		if booleanFields[prop] {
			return lower == "true", true
		}
		return v, true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

package geom

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// MetersPerLevel converts a building:levels count into meters.
const MetersPerLevel = 3.0

// heightRule coerces one attribute. levels is applied to numeric values
// only; string values are taken as metres as they stand.
type heightRule struct {
	key    string
	levels bool
}

// heightRules are consulted in order; the first that yields a value wins.
var heightRules = []heightRule{
	{key: "height"},
	{key: "building:height"},
	{key: "building:levels", levels: true},
}

// ResolveHeight derives an extrusion height in meters from feature attributes,
// falling back to def when no attribute gives a usable number.
func ResolveHeight(props geojson.Properties, def float64) float64 {
	for _, r := range heightRules {
		v, ok := props[r.key]
		if !ok {
			continue
		}
		if h, ok := r.coerce(v); ok {
			return h
		}
	}
	return def
}

func (r heightRule) coerce(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		return parseHeight(s)
	}
	f, ok := numericHeight(v)
	if !ok {
		return 0, false
	}
	if r.levels {
		f *= MetersPerLevel
	}
	return f, true
}

func numericHeight(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	return f, finite(f)
}

// parseHeight reads "12.5m" or " 12 m ".
func parseHeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "m"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

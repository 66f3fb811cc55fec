package osm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonSche/osm-to-3dprint/internal/geom"
)

// ErrNoTags is returned when a query has nothing to select.
var ErrNoTags = errors.New("osm: at least one tag filter is required")

// DefaultTimeout is the Overpass server side timeout in seconds.
const DefaultTimeout = 60

// Tag selects elements by key and, optionally, one of several values.
type Tag struct {
	Key    string
	Values []string
}

// ParseTag parses "building", "building=*", "natural=water" or
// "landuse=retail|commercial".
func ParseTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	key, val, hasVal := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return Tag{}, fmt.Errorf("osm: empty tag key in %q", s)
	}
	t := Tag{Key: key}
	val = strings.TrimSpace(val)
	if !hasVal || val == "*" {
		return t, nil
	}
	for _, v := range strings.Split(val, "|") {
		if v = strings.TrimSpace(v); v != "" {
			t.Values = append(t.Values, v)
		}
	}
	if len(t.Values) == 0 {
		return Tag{}, fmt.Errorf("osm: empty tag value in %q", s)
	}
	return t, nil
}

// ParseTags parses each of ss with ParseTag.
func ParseTags(ss []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(ss))
	for _, s := range ss {
		t, err := ParseTag(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (t Tag) String() string {
	if len(t.Values) == 0 {
		return t.Key + "=*"
	}
	return t.Key + "=" + strings.Join(t.Values, "|")
}

// Selector renders the Overpass QL filter for t.
func (t Tag) Selector() string {
	switch len(t.Values) {
	case 0:
		return "[" + strconv.Quote(t.Key) + "]"
	case 1:
		return "[" + strconv.Quote(t.Key) + "=" + strconv.Quote(t.Values[0]) + "]"
	}
	alts := make([]string, len(t.Values))
	for i, v := range t.Values {
		alts[i] = regexp.QuoteMeta(v)
	}
	return "[" + strconv.Quote(t.Key) + "~" + strconv.Quote("^("+strings.Join(alts, "|")+")$") + "]"
}

// Query builds an Overpass QL query returning every node, way and relation
// in bbox that matches any of tags, with inline geometry.
func Query(bbox geom.BBox, tags []Tag, timeout int) (string, error) {
	if len(tags) == 0 {
		return "", ErrNoTags
	}
	if err := bbox.Validate(); err != nil {
		return "", err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// Overpass orders a bbox south, west, north, east.
	area := fmt.Sprintf("(%s,%s,%s,%s)",
		formatCoord(bbox.MinLat), formatCoord(bbox.MinLng),
		formatCoord(bbox.MaxLat), formatCoord(bbox.MaxLng))
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeout)
	for _, t := range tags {
		fmt.Fprintf(&b, "  nwr%s%s;\n", t.Selector(), area)
	}
	b.WriteString(");\nout geom;\n")
	return b.String(), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

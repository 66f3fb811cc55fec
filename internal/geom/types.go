package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidBBox is returned for a bounding box whose min is not strictly below its max.
var ErrInvalidBBox = errors.New("bbox: min must be less than max on both axes")

// BBox is a geographic bounding box in degrees.
type BBox struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// ParseBBox parses "minLng,minLat,maxLng,maxLat".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox: want 4 comma separated values, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox: value %d: %w", i+1, err)
		}
		v[i] = f
	}
	b := BBox{MinLng: v[0], MinLat: v[1], MaxLng: v[2], MaxLat: v[3]}
	if err := b.Validate(); err != nil {
		return BBox{}, err
	}
	return b, nil
}

// Validate reports whether the box is usable for projection.
func (b BBox) Validate() error {
	for _, v := range [...]float64{b.MinLng, b.MinLat, b.MaxLng, b.MaxLat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidBBox
		}
	}
	if !(b.MinLng < b.MaxLng && b.MinLat < b.MaxLat) {
		return ErrInvalidBBox
	}
	return nil
}

func (b BBox) LngRange() float64 { return b.MaxLng - b.MinLng }
func (b BBox) LatRange() float64 { return b.MaxLat - b.MinLat }

// Bound converts to an orb.Bound (x = lng, y = lat).
func (b BBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLng, b.MinLat},
		Max: orb.Point{b.MaxLng, b.MaxLat},
	}
}

func (b BBox) String() string {
	return fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
}

// FromBound is the inverse of BBox.Bound.
func FromBound(bd orb.Bound) BBox {
	return BBox{MinLng: bd.Min[0], MinLat: bd.Min[1], MaxLng: bd.Max[0], MaxLat: bd.Max[1]}
}

// BBoxOf returns the box around every geometry in fc. ok is false when fc has
// no geometry to measure.
func BBoxOf(fc *geojson.FeatureCollection) (b BBox, ok bool) {
	if fc == nil {
		return BBox{}, false
	}
	var bd orb.Bound
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if !ok {
			bd = f.Geometry.Bound()
			ok = true
			continue
		}
		bd = bd.Union(f.Geometry.Bound())
	}
	return FromBound(bd), ok
}

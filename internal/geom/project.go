package geom

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// BaseMargin is how much larger the base plate is than the mapped area.
const BaseMargin = 1.2

// Projection maps lng/lat into plate millimeters. It is derived once per run
// and never mutated.
type Projection struct {
	MinLng   float64
	MinLat   float64
	ScaleX   float64
	ScaleY   float64
	OffsetX  float64
	OffsetY  float64
	BaseSize float64
}

// NewProjection fits bbox into a targetSize square centered on a plate
// BaseMargin times larger.
func NewProjection(bbox BBox, targetSize float64) (Projection, error) {
	if err := bbox.Validate(); err != nil {
		return Projection{}, err
	}
	if !(targetSize > 0) || math.IsInf(targetSize, 0) {
		return Projection{}, errors.New("projection: target size must be positive")
	}
	p := Projection{
		MinLng:   bbox.MinLng,
		MinLat:   bbox.MinLat,
		ScaleX:   targetSize / bbox.LngRange(),
		ScaleY:   targetSize / bbox.LatRange(),
		BaseSize: targetSize * BaseMargin,
	}
	p.OffsetX = (p.BaseSize - p.ScaleX*bbox.LngRange()) / 2
	p.OffsetY = (p.BaseSize - p.ScaleY*bbox.LatRange()) / 2
	return p, nil
}

// Project returns plate coordinates for pt, clamped into [0, BaseSize].
// clamped reports whether either axis had to be pulled back in.
func (p Projection) Project(pt orb.Point) (x, y float64, clamped bool) {
	x = (pt[0]-p.MinLng)*p.ScaleX + p.OffsetX
	y = (pt[1]-p.MinLat)*p.ScaleY + p.OffsetY
	var cx, cy bool
	x, cx = clamp(x, p.BaseSize)
	y, cy = clamp(y, p.BaseSize)
	return x, y, cx || cy
}

// ProjectRing projects every point of r. clamped counts the points that were
// pulled onto the plate edge.
func (p Projection) ProjectRing(r orb.Ring) (out orb.Ring, clamped int) {
	out = make(orb.Ring, len(r))
	for i, pt := range r {
		x, y, c := p.Project(pt)
		if c {
			clamped++
		}
		out[i] = orb.Point{x, y}
	}
	return out, clamped
}

func clamp(v, hi float64) (float64, bool) {
	if v < 0 {
		return 0, true
	}
	if v > hi {
		return hi, true
	}
	return v, false
}

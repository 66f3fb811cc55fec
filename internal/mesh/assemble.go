package mesh

import (
	"errors"
	"fmt"
	"math"

	log "github.com/inconshreveable/log15"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/JonSche/osm-to-3dprint/internal/geom"
)

// ErrDegenerateHeightScale is returned when the tallest resolved height
// cannot be used to normalize heights, e.g. every feature resolved to zero.
var ErrDegenerateHeightScale = errors.New("mesh: degenerate height scale")

// Params are the physical dimensions of one print.
type Params struct {
	BBox geom.BBox
	// TargetSize is the edge length in mm the bbox is mapped onto.
	TargetSize float64
	// MaxHeightMM is the printed height of the tallest feature.
	MaxHeightMM float64
	// DefaultHeight in meters, for features without height attributes.
	DefaultHeight float64
	// BaseThickness of the plate in mm.
	BaseThickness float64
}

// DefaultParams returns the stock print dimensions for bbox.
func DefaultParams(bbox geom.BBox) Params {
	return Params{
		BBox:          bbox,
		TargetSize:    180,
		MaxHeightMM:   40,
		DefaultHeight: 10,
		BaseThickness: 2,
	}
}

// Building records one extruded footprint.
type Building struct {
	// Index of the feature in the input collection.
	Index int
	// Footprint in plate millimeters, closed.
	Footprint orb.Ring
	// Height in meters as resolved from the attributes.
	Height float64
	// Scaled is the printed height in mm.
	Scaled     float64
	Vertices   int
	Properties geojson.Properties
}

// Result is the assembled mesh together with what went into it.
type Result struct {
	Mesh        *Mesh
	BaseSize    float64
	MaxHeight   float64
	HeightScale float64
	Buildings   []Building
	// Skipped counts features that were not a single polygon.
	Skipped int
	// Clamped counts footprint points pulled back onto the plate.
	Clamped int
}

// Assembler builds a plate mesh from a feature collection.
type Assembler struct {
	Params Params
	Logger log.Logger
}

// NewAssembler returns an Assembler. A nil logger discards output.
func NewAssembler(p Params, logger log.Logger) *Assembler {
	if logger == nil {
		logger = log.New()
		logger.SetHandler(log.DiscardHandler())
	}
	return &Assembler{Params: p, Logger: logger}
}

// Assemble builds the mesh for features with the given params and no logging.
func Assemble(features []*geojson.Feature, p Params) (*Mesh, error) {
	res, err := NewAssembler(p, nil).Assemble(features)
	if err != nil {
		return nil, err
	}
	return res.Mesh, nil
}

// Assemble runs two passes over features: the first finds the tallest
// resolved height to derive the height scale, the second extrudes every
// polygon onto the base plate in input order.
func (a *Assembler) Assemble(features []*geojson.Feature) (*Result, error) {
	p := a.Params
	proj, err := geom.NewProjection(p.BBox, p.TargetSize)
	if err != nil {
		return nil, err
	}

	res := &Result{Mesh: new(Mesh), BaseSize: proj.BaseSize}
	if len(features) > 0 {
		res.MaxHeight = math.Inf(-1)
		for _, f := range features {
			if h := geom.ResolveHeight(properties(f), p.DefaultHeight); h > res.MaxHeight {
				res.MaxHeight = h
			}
		}
		if !(res.MaxHeight > 0) {
			return nil, fmt.Errorf("%w: tallest feature resolves to %v m", ErrDegenerateHeightScale, res.MaxHeight)
		}
		res.HeightScale = p.MaxHeightMM / res.MaxHeight
		if math.IsNaN(res.HeightScale) || math.IsInf(res.HeightScale, 0) {
			return nil, fmt.Errorf("%w: scale %v", ErrDegenerateHeightScale, res.HeightScale)
		}
	}

	res.Mesh.Append(BuildBase(proj.BaseSize, p.BaseThickness))

	for i, f := range features {
		var poly orb.Polygon
		if f != nil {
			poly, _ = f.Geometry.(orb.Polygon)
		}
		if len(poly) == 0 || len(poly[0]) == 0 {
			res.Skipped++
			continue
		}
		ring, clamped := proj.ProjectRing(closeRing(poly[0]))
		if clamped > 0 {
			a.Logger.Debug("footprint clamped to plate", "feature", i, "points", clamped)
			res.Clamped += clamped
		}
		h := geom.ResolveHeight(f.Properties, p.DefaultHeight)
		scaled := h * res.HeightScale
		verts, faces := Extrude(ring, scaled, p.BaseThickness)
		res.Mesh.Append(verts, faces)
		res.Buildings = append(res.Buildings, Building{
			Index:      i,
			Footprint:  ring,
			Height:     h,
			Scaled:     scaled,
			Vertices:   len(verts),
			Properties: f.Properties,
		})
	}

	if res.Clamped > 0 {
		a.Logger.Warn("points clamped to plate edge", "count", res.Clamped)
	}
	a.Logger.Info("assembled mesh",
		"buildings", len(res.Buildings), "skipped", res.Skipped,
		"vertices", len(res.Mesh.Vertices), "faces", len(res.Mesh.Faces),
		"max_height", res.MaxHeight, "height_scale", res.HeightScale)
	return res, nil
}

func properties(f *geojson.Feature) geojson.Properties {
	if f == nil {
		return nil
	}
	return f.Properties
}

// closeRing repeats the first point at the end when the ring is open, so the
// extruder's closing-point convention holds for any input.
func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && r[0] == r[len(r)-1] {
		return r
	}
	out := make(orb.Ring, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}

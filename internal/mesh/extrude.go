package mesh

import (
	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
)

// Extrude lifts a closed planar ring into a prism standing at z=baseThickness
// and reaching z=baseThickness+height.
//
// The last point of ring is taken to repeat the first: every point gets a
// bottom/top vertex pair (bottom 2i, top 2i+1) but only the first len-1 points
// are walked for walls and caps. Caps are fanned from point 0, which is only
// correct for footprints that are convex as seen from that point.
//
// A ring with fewer than three distinct points yields nothing.
func Extrude(ring orb.Ring, height, baseThickness float64) ([]r3.Vector, []Face) {
	n := len(ring)
	if n-1 < 3 {
		return nil, nil
	}
	top := baseThickness + height
	verts := make([]r3.Vector, 0, 2*n)
	for _, p := range ring {
		verts = append(verts,
			r3.Vector{X: p[0], Y: p[1], Z: baseThickness},
			r3.Vector{X: p[0], Y: p[1], Z: top},
		)
	}
	bottomAt := func(i int) int { return 2 * i }
	topAt := func(i int) int { return 2*i + 1 }

	faces := make([]Face, 0, 2*(n-1)+2*(n-3))
	for i := 0; i < n-1; i++ {
		b1, b2 := bottomAt(i), bottomAt(i+1)
		t1, t2 := topAt(i), topAt(i+1)
		faces = append(faces, Face{b1, b2, t1}, Face{t1, b2, t2})
	}
	for i := 1; i < n-2; i++ {
		faces = append(faces, Face{topAt(0), topAt(i), topAt(i + 1)})
	}
	for i := 1; i < n-2; i++ {
		faces = append(faces, Face{bottomAt(0), bottomAt(i), bottomAt(i + 1)})
	}
	return verts, faces
}

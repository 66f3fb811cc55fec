package mesh

import "github.com/golang/geo/r3"

// BuildBase returns the solid plate buildings stand on: a size x size box from
// the origin, bottom at z=0 and top at z=thickness. The eight corners and
// twelve triangles always come out in this order.
func BuildBase(size, thickness float64) ([]r3.Vector, []Face) {
	verts := []r3.Vector{
		// bottom
		{X: 0, Y: 0, Z: 0},
		{X: size, Y: 0, Z: 0},
		{X: size, Y: size, Z: 0},
		{X: 0, Y: size, Z: 0},
		// top, where buildings sit
		{X: 0, Y: 0, Z: thickness},
		{X: size, Y: 0, Z: thickness},
		{X: size, Y: size, Z: thickness},
		{X: 0, Y: size, Z: thickness},
	}
	faces := []Face{
		// sides
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
		// top
		{4, 5, 6}, {4, 6, 7},
		// bottom
		{0, 1, 2}, {0, 2, 3},
	}
	return verts, faces
}

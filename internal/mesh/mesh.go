// Package mesh turns projected footprints into one triangle mesh standing on
// a rectangular base plate.
package mesh

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

// ErrIndexOutOfRange is returned by Validate for a face pointing past the
// vertex list.
var ErrIndexOutOfRange = errors.New("mesh: vertex index out of range")

// Face is a triangle of vertex indices. Winding decides the outward normal.
type Face [3]int

// Mesh is an append-only vertex/face arena. Faces index into Vertices.
type Mesh struct {
	Vertices []r3.Vector
	Faces    []Face
}

// Append adds a locally indexed block of vertices and faces, translating the
// face indices by the vertex count at the time of the call. It returns that
// offset.
func (m *Mesh) Append(verts []r3.Vector, faces []Face) int {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, verts...)
	for _, f := range faces {
		m.Faces = append(m.Faces, Face{f[0] + base, f[1] + base, f[2] + base})
	}
	return base
}

// Triangle returns the corner positions of face i.
func (m *Mesh) Triangle(i int) [3]r3.Vector {
	f := m.Faces[i]
	return [3]r3.Vector{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Validate checks that every face refers to an existing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned extent of all vertices. Both are zero for
// an empty mesh.
func (m *Mesh) Bounds() (lo, hi r3.Vector) {
	for i, v := range m.Vertices {
		if i == 0 {
			lo, hi = v, v
			continue
		}
		lo = r3.Vector{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = r3.Vector{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return lo, hi
}

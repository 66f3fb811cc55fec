// Package stl writes meshes as binary STL files.
//
// Layout: an 80 byte header, a little-endian uint32 triangle count, then one
// 50 byte record per triangle holding the normal and three corners as
// float32 triples followed by a zero uint16 attribute.
package stl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"

	"github.com/JonSche/osm-to-3dprint/internal/mesh"
)

const (
	HeaderSize = 80
	RecordSize = 50
)

// DefaultHeader is written when Options.Header is empty.
const DefaultHeader = "osm-to-3dprint binary STL"

// ErrTooManyTriangles is returned when the face count does not fit the
// format's uint32 counter.
var ErrTooManyTriangles = errors.New("stl: too many triangles")

// Options control the encoding.
type Options struct {
	// Header text, truncated to 80 bytes.
	Header string
	// Normals computes unit facet normals from the winding. Otherwise every
	// normal is the zero vector and slicers derive their own.
	Normals bool
}

// Size returns the encoded size of m in bytes.
func Size(m *mesh.Mesh) int64 {
	return HeaderSize + 4 + int64(len(m.Faces))*RecordSize
}

// Write encodes m to w. The mesh is validated before anything is written.
func Write(w io.Writer, m *mesh.Mesh, opts Options) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if uint64(len(m.Faces)) > math.MaxUint32 {
		return ErrTooManyTriangles
	}
	bw := bufio.NewWriter(w)

	var header [HeaderSize]byte
	h := opts.Header
	if h == "" {
		h = DefaultHeader
	}
	copy(header[:], h)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(m.Faces)))
	if _, err := bw.Write(count[:]); err != nil {
		return err
	}

	var rec [RecordSize]byte
	for i := range m.Faces {
		tri := m.Triangle(i)
		var n r3.Vector
		if opts.Normals {
			n = Normal(tri)
		}
		putVector(rec[0:12], n)
		putVector(rec[12:24], tri[0])
		putVector(rec[24:36], tri[1])
		putVector(rec[36:48], tri[2])
		// rec[48:50] attribute byte count stays zero
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Normal returns the unit normal of a counter-clockwise wound triangle, or
// the zero vector for a degenerate one.
func Normal(tri [3]r3.Vector) r3.Vector {
	n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	if n.Norm2() == 0 {
		return r3.Vector{}
	}
	return n.Normalize()
}

func putVector(b []byte, v r3.Vector) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(float32(v.Z)))
}

// WriteFile writes m to path. The data goes to a temporary file in the same
// directory that is renamed over path once complete, so a failed export
// never leaves a truncated file behind.
func WriteFile(path string, m *mesh.Mesh, opts Options) (err error) {
	if err := m.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = Write(tmp, m, opts); err != nil {
		return fmt.Errorf("stl: write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"

	"github.com/JonSche/osm-to-3dprint/internal/mesh"
)

func plate(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := new(mesh.Mesh)
	m.Append(mesh.BuildBase(216, 2))
	m.Append(mesh.Extrude(orb.Ring{{10, 10}, {20, 10}, {20, 20}, {10, 20}, {10, 10}}, 5, 2))
	return m
}

func readFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func TestWrite(t *testing.T) {
	m := plate(t)
	var buf bytes.Buffer
	if err := Write(&buf, m, Options{}); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if int64(len(b)) != Size(m) {
		t.Fatalf("wrote %d bytes, want %d", len(b), Size(m))
	}
	if len(b) != 80+4+24*50 {
		t.Fatalf("wrote %d bytes for 24 triangles", len(b))
	}
	if !strings.HasPrefix(string(b[:80]), DefaultHeader) {
		t.Errorf("header = %q", b[:80])
	}
	if n := binary.LittleEndian.Uint32(b[80:84]); n != 24 {
		t.Errorf("count = %d, want 24", n)
	}
	// first base triangle is {0,1,5}: (0,0,0) (216,0,0) (216,0,2)
	rec := b[84 : 84+50]
	for i := 0; i < 3; i++ {
		if f := readFloat(rec[i*4:]); f != 0 {
			t.Errorf("normal component %d = %v, want 0", i, f)
		}
	}
	want := []float32{0, 0, 0, 216, 0, 0, 216, 0, 2}
	for i, w := range want {
		if got := readFloat(rec[12+i*4:]); got != w {
			t.Errorf("coordinate %d = %v, want %v", i, got, w)
		}
	}
	if rec[48] != 0 || rec[49] != 0 {
		t.Errorf("attribute = %v", rec[48:50])
	}
}

func TestWriteHeaderTruncated(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("x", 200)
	if err := Write(&buf, new(mesh.Mesh), Options{Header: long}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84 {
		t.Fatalf("empty mesh wrote %d bytes, want 84", buf.Len())
	}
	if string(buf.Bytes()[:80]) != long[:80] {
		t.Error("header not truncated to 80 bytes")
	}
}

func TestWriteNormals(t *testing.T) {
	m := plate(t)
	var buf bytes.Buffer
	if err := Write(&buf, m, Options{Normals: true}); err != nil {
		t.Fatal(err)
	}
	// base top face {4,5,6} is counter-clockwise seen from above
	rec := buf.Bytes()[84+8*50:]
	n := [3]float32{readFloat(rec[0:]), readFloat(rec[4:]), readFloat(rec[8:])}
	if n != [3]float32{0, 0, 1} {
		t.Errorf("top normal = %v, want (0,0,1)", n)
	}
}

func TestNormal(t *testing.T) {
	tri := [3]r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 2, Z: 0}}
	if n := Normal(tri); n != (r3.Vector{X: 0, Y: 0, Z: 1}) {
		t.Errorf("Normal = %v", n)
	}
	flat := [3]r3.Vector{{X: 1}, {X: 2}, {X: 3}}
	if n := Normal(flat); n != (r3.Vector{}) {
		t.Errorf("degenerate Normal = %v, want zero", n)
	}
}

func TestWriteRejectsBadIndex(t *testing.T) {
	m := plate(t)
	m.Faces = append(m.Faces, mesh.Face{0, 1, len(m.Vertices)})
	var buf bytes.Buffer
	if err := Write(&buf, m, Options{}); !errors.Is(err, mesh.ErrIndexOutOfRange) {
		t.Fatalf("got %v, want ErrIndexOutOfRange", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for an invalid mesh", buf.Len())
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buildings_with_base.stl")
	m := plate(t)
	if err := WriteFile(path, m, Options{}); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != Size(m) {
		t.Errorf("file is %d bytes, want %d", fi.Size(), Size(m))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteFileInvalidLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.stl")
	m := plate(t)
	m.Faces = append(m.Faces, mesh.Face{-1, 0, 1})
	if err := WriteFile(path, m, Options{}); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("files written for invalid mesh: %v", entries)
	}
}

package geom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// LoadWKT reads a file with one WKT geometry per line. Blank lines and lines
// starting with # are ignored. WKT carries no attributes, so every feature
// resolves to the default height.
func LoadWKT(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseWKT(f)
}

// ParseWKT is LoadWKT over a reader.
func ParseWKT(r io.Reader) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		g, err := wkt.Unmarshal(s)
		if err != nil {
			return nil, fmt.Errorf("wkt: line %d: %w", line, err)
		}
		fc.Append(geojson.NewFeature(g))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("wkt: no geometries parsed")
	}
	return fc, nil
}

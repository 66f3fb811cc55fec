// Package geom reads building footprints and maps them from geographic
// coordinates onto the print plate.
package geom

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// LoadFile loads supported formats by extension.
func LoadFile(p string) (*geojson.FeatureCollection, error) {
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".geojson", ".json":
		return LoadGeoJSON(p)
	case ".wkt":
		return LoadWKT(p)
	case ".csv":
		return LoadCSV(p)
	case ".kml":
		return LoadKML(p)
	default:
		return nil, fmt.Errorf("unsupported file: %q", ext)
	}
}

package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a GeoJSON file holding a FeatureCollection, a single
// Feature or a bare geometry and returns it as a collection.
func LoadGeoJSON(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON is LoadGeoJSON for in-memory documents.
func ParseGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	switch head.Type {
	case "":
		return nil, errors.New("geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return geojson.NewFeatureCollection().Append(f), nil
	default:
		// bare geometry: no attributes
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		return geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry())), nil
	}
}

package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// LoadCSV reads a CSV whose geometry column holds WKT.
// Column detection: wkt|geometry|geom (case-insensitive). Every other column
// becomes a string attribute, so "height" or "building:levels" columns feed
// the height resolver.
func LoadCSV(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV is LoadCSV over a reader.
func ParseCSV(r io.Reader) (*geojson.FeatureCollection, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxGeom := -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "wkt", "geometry", "geom":
			if idxGeom == -1 {
				idxGeom = i
			}
		}
	}
	if idxGeom == -1 {
		return nil, errors.New("csv: geometry column not found")
	}
	fc := geojson.NewFeatureCollection()
	for n, row := range recs[1:] {
		if idxGeom >= len(row) || strings.TrimSpace(row[idxGeom]) == "" {
			continue
		}
		g, err := wkt.Unmarshal(row[idxGeom])
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %w", n+2, err)
		}
		feat := geojson.NewFeature(g)
		for i, h := range header {
			if i == idxGeom || i >= len(row) || row[i] == "" {
				continue
			}
			feat.Properties[strings.TrimSpace(h)] = row[i]
		}
		fc.Append(feat)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("csv: no valid geometries parsed")
	}
	return fc, nil
}

package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadKML extracts Placemarks from a KML file. Polygons use their outer
// boundary only; Points are kept so they count toward the height scale.
// KML coordinates are "lon,lat[,alt]"; we ignore altitude.
// The Placemark name and ExtendedData values become attributes.
func LoadKML(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseKML(f)
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer string `xml:"outerBoundaryIs>LinearRing>coordinates"`
}

type kmlPlacemark struct {
	Name     string      `xml:"name"`
	Point    *kmlPoint   `xml:"Point"`
	Polygon  *kmlPolygon `xml:"Polygon"`
	Extended []kmlData   `xml:"ExtendedData>Data"`
}

// kmlContainer is the kml root, a Document or a Folder. Any of them may hold
// Placemarks and further Documents and Folders.
type kmlContainer struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Documents  []kmlContainer `xml:"Document"`
	Folders    []kmlContainer `xml:"Folder"`
}

// placemarks appends every Placemark under c, depth first: c's own, then
// those in its Documents, then those in its Folders.
func (c *kmlContainer) placemarks(out []kmlPlacemark) []kmlPlacemark {
	out = append(out, c.Placemarks...)
	for i := range c.Documents {
		out = c.Documents[i].placemarks(out)
	}
	for i := range c.Folders {
		out = c.Folders[i].placemarks(out)
	}
	return out
}

// ParseKML is LoadKML over a reader.
func ParseKML(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var root kmlContainer
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	pms := root.placemarks(nil)

	fc := geojson.NewFeatureCollection()
	for _, pm := range pms {
		var g orb.Geometry
		switch {
		case pm.Polygon != nil:
			ring := orb.Ring(parseKMLCoords(pm.Polygon.Outer))
			if len(ring) == 0 {
				continue
			}
			g = orb.Polygon{ring}
		case pm.Point != nil:
			pts := parseKMLCoords(pm.Point.Coordinates)
			if len(pts) == 0 {
				continue
			}
			g = pts[0]
		default:
			continue
		}
		feat := geojson.NewFeature(g)
		if pm.Name != "" {
			feat.Properties["name"] = pm.Name
		}
		for _, d := range pm.Extended {
			if d.Name != "" {
				feat.Properties[d.Name] = strings.TrimSpace(d.Value)
			}
		}
		fc.Append(feat)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("kml: no placemarks found")
	}
	return fc, nil
}

// coordinates may contain multiple tuples separated by spaces
func parseKMLCoords(s string) []orb.Point {
	var pts []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts
}

package osm

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/JonSche/osm-to-3dprint/internal/geom"
)

type FeatureService struct {
	// Timeout is the server side query timeout in seconds. Zero means
	// DefaultTimeout.
	Timeout int

	client *Client
}

type response struct {
	Version   float64    `json:"version"`
	Generator string     `json:"generator"`
	Remark    string     `json:"remark"`
	Elements  []*element `json:"elements"`
}

type latLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type member struct {
	Type     string   `json:"type"`
	Ref      int64    `json:"ref"`
	Role     string   `json:"role"`
	Geometry []latLon `json:"geometry"`
}

type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Tags     map[string]string `json:"tags"`
	Geometry []latLon          `json:"geometry"`
	Members  []member          `json:"members"`
}

// Fetch returns every element in bbox matching any of tags as GeoJSON
// features, in the order the server returned them.
func (s *FeatureService) Fetch(ctx context.Context, bbox geom.BBox, tags ...Tag) (*geojson.FeatureCollection, error) {
	q, err := Query(bbox, tags, s.Timeout)
	if err != nil {
		return nil, err
	}
	form := url.Values{"data": []string{q}}
	req, err := s.client.NewRequest("POST", "/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(ctx)
	body := new(response)
	if err := s.client.Client.Do(req, body); err != nil {
		return nil, err
	}
	// Overpass reports timeouts and memory exhaustion in a 200 response.
	if strings.Contains(body.Remark, "error") {
		return nil, fmt.Errorf("osm: overpass: %s", strings.TrimSpace(body.Remark))
	}
	return buildFeatures(body.Elements), nil
}

func buildFeatures(elems []*element) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range elems {
		if e == nil {
			continue
		}
		g := e.geometry()
		if g == nil {
			continue
		}
		f := geojson.NewFeature(g)
		f.ID = e.Type + "/" + strconv.FormatInt(e.ID, 10)
		for k, v := range e.Tags {
			f.Properties[k] = v
		}
		f.Properties["@type"] = e.Type
		f.Properties["@id"] = e.ID
		fc.Append(f)
	}
	return fc
}

// geometry returns nil when the element has nothing drawable.
func (e *element) geometry() orb.Geometry {
	switch e.Type {
	case "node":
		return orb.Point{e.Lon, e.Lat}
	case "way":
		ls := lineOf(e.Geometry)
		if len(ls) < 2 {
			return nil
		}
		if r := orb.Ring(ls); r.Closed() {
			return orb.Polygon{r}
		}
		return ls
	case "relation":
		if e.Tags["type"] != "multipolygon" {
			return nil
		}
		var mp orb.MultiPolygon
		for _, m := range e.Members {
			if m.Type != "way" || (m.Role != "outer" && m.Role != "") {
				continue
			}
			if r := orb.Ring(lineOf(m.Geometry)); r.Closed() {
				mp = append(mp, orb.Polygon{r})
			}
		}
		if len(mp) == 0 {
			return nil
		}
		return mp
	}
	return nil
}

func lineOf(pts []latLon) orb.LineString {
	ls := make(orb.LineString, 0, len(pts))
	for _, p := range pts {
		ls = append(ls, orb.Point{p.Lon, p.Lat})
	}
	return ls
}

package geom

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"height": "21m", "name": "A"},
     "geometry": {"type": "Polygon", "coordinates": [[[4.0,52.0],[4.1,52.0],[4.1,52.1],[4.0,52.1],[4.0,52.0]]]}},
    {"type": "Feature", "properties": {"building:levels": 3},
     "geometry": {"type": "Point", "coordinates": [4.5,52.5]}}
  ]
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFileGeoJSON(t *testing.T) {
	fc, err := LoadFile(writeFile(t, "b.geojson", sampleCollection))
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("feature 0 is %T, want orb.Polygon", fc.Features[0].Geometry)
	}
	if len(poly[0]) != 5 {
		t.Errorf("ring has %d points, want 5", len(poly[0]))
	}
	if got := ResolveHeight(fc.Features[0].Properties, 10); got != 21 {
		t.Errorf("height = %v, want 21", got)
	}
	if got := ResolveHeight(fc.Features[1].Properties, 10); got != 9 {
		t.Errorf("levels height = %v, want 9", got)
	}
}

func TestParseGeoJSONVariants(t *testing.T) {
	single := `{"type":"Feature","properties":{"height":4},"geometry":{"type":"Point","coordinates":[1,2]}}`
	fc, err := ParseGeoJSON([]byte(single))
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Properties["height"] != 4.0 {
		t.Errorf("unexpected feature collection %+v", fc.Features[0])
	}
	bare := `{"type":"LineString","coordinates":[[1,2],[3,4]]}`
	fc, err = ParseGeoJSON([]byte(bare))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fc.Features[0].Geometry.(orb.LineString); !ok {
		t.Errorf("bare geometry is %T, want orb.LineString", fc.Features[0].Geometry)
	}
	if _, err := ParseGeoJSON([]byte(`{"features":[]}`)); err == nil {
		t.Error("missing type: expected error")
	}
}

func TestLoadFileWKT(t *testing.T) {
	body := "# harbour\nPOLYGON((0 0, 1 0, 1 1, 0 1, 0 0))\n\nPOINT(3 4)\n"
	fc, err := LoadFile(writeFile(t, "shapes.wkt", body))
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	if _, ok := fc.Features[0].Geometry.(orb.Polygon); !ok {
		t.Errorf("feature 0 is %T", fc.Features[0].Geometry)
	}
	if _, err := ParseWKT(strings.NewReader("POLYGON((0 0, 1")); err == nil {
		t.Error("broken wkt: expected error")
	}
	if _, err := ParseWKT(strings.NewReader("\n# only comments\n")); err == nil {
		t.Error("empty wkt: expected error")
	}
}

func TestLoadFileCSV(t *testing.T) {
	body := "name,WKT,building:levels\n" +
		"dock,\"POLYGON((0 0, 1 0, 1 1, 0 0))\",4\n" +
		"empty,,2\n" +
		"tower,\"POINT(1 1)\",\n"
	fc, err := LoadFile(writeFile(t, "b.csv", body))
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	props := fc.Features[0].Properties
	if props["name"] != "dock" || props["building:levels"] != "4" {
		t.Errorf("unexpected properties %v", props)
	}
	if _, ok := fc.Features[1].Properties["building:levels"]; ok {
		t.Error("empty cell should not become an attribute")
	}
	if _, err := ParseCSV(strings.NewReader("lat,lon\n1,2\n")); err == nil {
		t.Error("no geometry column: expected error")
	}
}

func TestLoadFileKML(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
  <Placemark>
    <name>Centraal</name>
    <ExtendedData><Data name="height"><value>24</value></Data></ExtendedData>
    <Polygon><outerBoundaryIs><LinearRing>
      <coordinates>4.0,52.0,0 4.1,52.0,0 4.1,52.1,0 4.0,52.0,0</coordinates>
    </LinearRing></outerBoundaryIs></Polygon>
  </Placemark>
  <Folder>
    <Placemark><Point><coordinates>4.05,52.05</coordinates></Point></Placemark>
  </Folder>
</Document>
</kml>`
	fc, err := LoadFile(writeFile(t, "b.kml", body))
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	if !ok || len(poly[0]) != 4 {
		t.Fatalf("feature 0 = %#v", fc.Features[0].Geometry)
	}
	if got := ResolveHeight(fc.Features[0].Properties, 10); got != 24 {
		t.Errorf("height = %v, want 24", got)
	}
	if fc.Features[0].Properties["name"] != "Centraal" {
		t.Errorf("name = %v", fc.Features[0].Properties["name"])
	}
}

func TestParseKMLNestedFolders(t *testing.T) {
	body := `<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
  <Folder>
    <name>city</name>
    <Folder>
      <name>district</name>
      <Folder>
        <Placemark><name>deep</name><Point><coordinates>4.2,52.2</coordinates></Point></Placemark>
      </Folder>
      <Placemark><name>mid</name><Point><coordinates>4.1,52.1</coordinates></Point></Placemark>
    </Folder>
  </Folder>
  <Document>
    <Placemark><name>inner doc</name><Point><coordinates>4.3,52.3</coordinates></Point></Placemark>
  </Document>
</Document>
</kml>`
	fc, err := ParseKML(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"inner doc", "mid", "deep"}
	if len(fc.Features) != len(want) {
		t.Fatalf("got %d features, want %d", len(fc.Features), len(want))
	}
	for i, name := range want {
		if got := fc.Features[i].Properties["name"]; got != name {
			t.Errorf("feature %d: name = %v, want %s", i, got, name)
		}
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	if _, err := LoadFile("roads.shp"); err == nil {
		t.Error("expected error for .shp")
	}
}

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox("4.87123, 52.35893,4.93389,52.38351")
	if err != nil {
		t.Fatal(err)
	}
	want := BBox{MinLng: 4.87123, MinLat: 52.35893, MaxLng: 4.93389, MaxLat: 52.38351}
	if b != want {
		t.Errorf("got %+v, want %+v", b, want)
	}
	if _, err := ParseBBox("1,2,3"); err == nil {
		t.Error("three values: expected error")
	}
	if _, err := ParseBBox("1,2,x,4"); err == nil {
		t.Error("non-numeric: expected error")
	}
	if _, err := ParseBBox("1,2,1,4"); !errors.Is(err, ErrInvalidBBox) {
		t.Errorf("zero width: got %v, want ErrInvalidBBox", err)
	}
}

func TestBBoxOf(t *testing.T) {
	fc, err := ParseGeoJSON([]byte(sampleCollection))
	if err != nil {
		t.Fatal(err)
	}
	b, ok := BBoxOf(fc)
	if !ok {
		t.Fatal("expected a bbox")
	}
	want := BBox{MinLng: 4.0, MinLat: 52.0, MaxLng: 4.5, MaxLat: 52.5}
	if b != want {
		t.Errorf("got %+v, want %+v", b, want)
	}
	if _, ok := BBoxOf(nil); ok {
		t.Error("nil collection should have no bbox")
	}
}

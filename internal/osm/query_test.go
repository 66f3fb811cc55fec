package osm

import (
	"errors"
	"strings"
	"testing"

	"github.com/JonSche/osm-to-3dprint/internal/geom"
)

var parseTagTests = []struct {
	in   string
	want string
	sel  string
}{
	{"building", "building=*", `["building"]`},
	{"building=*", "building=*", `["building"]`},
	{" natural = water ", "natural=water", `["natural"="water"]`},
	{"landuse=retail|commercial", "landuse=retail|commercial", `["landuse"~"^(retail|commercial)$"]`},
	{"shop=a.b|c", "shop=a.b|c", `["shop"~"^(a\\.b|c)$"]`},
}

func TestParseTag(t *testing.T) {
	for _, tt := range parseTagTests {
		t.Run(tt.in, func(t *testing.T) {
			tag, err := ParseTag(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := tag.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tag.Selector(); got != tt.sel {
				t.Errorf("Selector() = %q, want %q", got, tt.sel)
			}
		})
	}
}

func TestParseTagErrors(t *testing.T) {
	for _, in := range []string{"", "=water", "natural=", "natural=|"} {
		if _, err := ParseTag(in); err == nil {
			t.Errorf("ParseTag(%q): expected error", in)
		}
	}
	if _, err := ParseTags([]string{"building", "=x"}); err == nil {
		t.Error("ParseTags: expected error from second tag")
	}
}

func TestQuery(t *testing.T) {
	bbox := geom.BBox{MinLng: 13.37, MinLat: 52.5, MaxLng: 13.4, MaxLat: 52.52}
	tags, err := ParseTags([]string{"building", "natural=water"})
	if err != nil {
		t.Fatal(err)
	}
	q, err := Query(bbox, tags, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "[out:json][timeout:60];\n(\n" +
		"  nwr[\"building\"](52.5,13.37,52.52,13.4);\n" +
		"  nwr[\"natural\"=\"water\"](52.5,13.37,52.52,13.4);\n" +
		");\nout geom;\n"
	if q != want {
		t.Errorf("Query:\n%s\nwant:\n%s", q, want)
	}
	q, err = Query(bbox, tags[:1], 25)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(q, "[out:json][timeout:25];") {
		t.Errorf("timeout not applied: %q", q)
	}
}

func TestQueryErrors(t *testing.T) {
	good := geom.BBox{MinLng: 0, MinLat: 0, MaxLng: 1, MaxLat: 1}
	if _, err := Query(good, nil, 0); !errors.Is(err, ErrNoTags) {
		t.Errorf("no tags: got %v, want ErrNoTags", err)
	}
	bad := geom.BBox{MinLng: 1, MinLat: 0, MaxLng: 1, MaxLat: 1}
	if _, err := Query(bad, []Tag{{Key: "building"}}, 0); !errors.Is(err, geom.ErrInvalidBBox) {
		t.Errorf("bad bbox: got %v, want ErrInvalidBBox", err)
	}
}

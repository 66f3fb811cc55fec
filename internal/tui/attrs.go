package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/paulmach/orb/geojson"

	"github.com/JonSche/osm-to-3dprint/internal/mesh"
)

var attrColumns = []table.Column{
	{Title: "#", Width: 5},
	{Title: "height m", Width: 9},
	{Title: "print mm", Width: 9},
	{Title: "verts", Width: 6},
	{Title: "name", Width: 28},
}

// buildingRows has one row per extruded footprint, in input order.
func buildingRows(res *mesh.Result) []table.Row {
	if res == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(res.Buildings))
	for _, b := range res.Buildings {
		rows = append(rows, table.Row{
			strconv.Itoa(b.Index + 1),
			fmt.Sprintf("%.1f", b.Height),
			fmt.Sprintf("%.2f", b.Scaled),
			strconv.Itoa(b.Vertices),
			label(b.Properties),
		})
	}
	return rows
}

// label picks something a person would recognise the feature by.
func label(props geojson.Properties) string {
	for _, k := range []string{"name", "addr:housename", "addr:street"} {
		if s, ok := props[k].(string); ok && s != "" {
			if k == "addr:street" {
				if n, ok := props["addr:housenumber"].(string); ok && n != "" {
					return s + " " + n
				}
			}
			return s
		}
	}
	if t, ok := props["@type"].(string); ok {
		return fmt.Sprintf("%s/%v", t, props["@id"])
	}
	return ""
}

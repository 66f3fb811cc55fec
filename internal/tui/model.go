// Package tui shows an assembled plate in the terminal before it is written.
package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonSche/osm-to-3dprint/internal/mesh"
)

const (
	headerHeight = 1
	footerHeight = 2

	minZoom = 0.25
	maxZoom = 64
)

type Model struct {
	res *mesh.Result
	out string

	width  int
	height int

	helpVisible bool
	fill        bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// hover state, in plate millimetres
	hovering   bool
	hoverCellX int
	hoverCellY int
	hoverX     float64
	hoverY     float64

	showAttrs bool
	tbl       table.Model

	confirmed bool
}

// New returns a preview of res that will be written to out if confirmed.
func New(res *mesh.Result, out string) Model {
	m := Model{
		res:         res,
		out:         out,
		helpVisible: true,
		fill:        true,
		zoom:        1.0,
	}
	if res != nil {
		m.status = fmt.Sprintf("%d buildings, %d skipped, plate %.1f mm, %d triangles",
			len(res.Buildings), res.Skipped, res.BaseSize, len(res.Mesh.Faces))
	}
	m.tbl = table.New(table.WithColumns(attrColumns), table.WithFocused(true), table.WithHeight(12))
	m.tbl.SetRows(buildingRows(res))
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Confirmed reports whether the user asked for the STL to be written.
func (m Model) Confirmed() bool { return m.confirmed }

// mapArea returns the origin and size of the map canvas in cells. It must
// agree with the layout in View.
func (m Model) mapArea() (x, y, w, h int) {
	h = max(4, m.height-headerHeight-footerHeight)
	w = max(10, m.width)
	return 0, headerHeight, w, h
}

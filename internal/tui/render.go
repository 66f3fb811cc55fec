package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
)

// viewport maps plate millimetres to braille micro pixels. Micro pixels are
// roughly square, so the plate keeps its aspect ratio on screen.
type viewport struct {
	scale  float64 // micro pixels per mm
	cx, cy float64 // micro pixel of the plate centre
	half   float64 // half the plate edge in mm
}

func (m Model) viewport(w, h int) viewport {
	side := float64(min(w*2, h*4) - 1)
	var scale float64
	if m.res != nil && m.res.BaseSize > 0 {
		scale = side / m.res.BaseSize * m.zoom
	}
	v := viewport{
		scale: scale,
		cx:    float64(w*2-1)/2 + float64(m.offsetX*2),
		cy:    float64(h*4-1)/2 + float64(m.offsetY*4),
	}
	if m.res != nil {
		v.half = m.res.BaseSize / 2
	}
	return v
}

// micro returns the micro pixel for plate point (x, y). Plate y grows
// northwards, screen y grows down.
func (v viewport) micro(x, y float64) (int, int) {
	mx := v.cx + (x-v.half)*v.scale
	my := v.cy - (y-v.half)*v.scale
	return int(math.Round(mx)), int(math.Round(my))
}

// plate is the inverse of micro.
func (v viewport) plate(mx, my int) (x, y float64, ok bool) {
	if v.scale == 0 {
		return 0, 0, false
	}
	x = (float64(mx)-v.cx)/v.scale + v.half
	y = (v.cy-float64(my))/v.scale + v.half
	return x, y, true
}

func (m Model) renderPlate(w, h int) string {
	br := newBrailleBuf(w, h)
	if m.res != nil && m.res.BaseSize > 0 {
		v := m.viewport(w, h)
		s := m.res.BaseSize
		br.ring(v, orb.Ring{{0, 0}, {s, 0}, {s, s}, {0, s}, {0, 0}})
		for _, b := range m.res.Buildings {
			if m.fill {
				br.fill(v, b.Footprint)
			}
			br.ring(v, b.Footprint)
		}
	}
	lines := br.toLines()
	if m.hovering && m.hoverCellY < len(lines) {
		r := []rune(lines[m.hoverCellY])
		if m.hoverCellX >= 0 && m.hoverCellX < len(r) {
			lines[m.hoverCellY] = string(r[:m.hoverCellX]) + hoverStyle.Render("◯") + string(r[m.hoverCellX+1:])
		}
	}
	return strings.Join(lines, "\n")
}

func (b *brailleBuf) ring(v viewport, r orb.Ring) {
	for i := 0; i+1 < len(r); i++ {
		x0, y0 := v.micro(r[i][0], r[i][1])
		x1, y1 := v.micro(r[i+1][0], r[i+1][1])
		b.line(x0, y0, x1, y1)
	}
}

// fill paints the inside of r with an even-odd scanline.
func (b *brailleBuf) fill(v viewport, r orb.Ring) {
	if len(r) < 3 {
		return
	}
	pts := make([][2]int, len(r))
	top, bottom := math.MaxInt, math.MinInt
	for i, p := range r {
		x, y := v.micro(p[0], p[1])
		pts[i] = [2]int{x, y}
		top = min(top, y)
		bottom = max(bottom, y)
	}
	top = max(0, top)
	bottom = min(b.h*4-1, bottom)
	var xs []int
	for y := top; y <= bottom; y++ {
		xs = xs[:0]
		for i := range pts {
			a, c := pts[i], pts[(i+1)%len(pts)]
			if a[1] == c[1] {
				continue
			}
			if (y >= a[1] && y < c[1]) || (y >= c[1] && y < a[1]) {
				t := float64(y-a[1]) / float64(c[1]-a[1])
				xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			b.span(y, xs[i], xs[i+1])
		}
	}
}

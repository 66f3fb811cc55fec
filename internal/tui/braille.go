package tui

// brailleBits maps a micro pixel (row, column) inside a cell to its dot.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleBuf is a canvas of w x h cells, each a 2x4 grid of micro pixels.
type brailleBuf struct {
	w, h int
	m    [][]uint8
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[my%4][mx%2]
}

// line draws from (x0,y0) to (x1,y1) with Bresenham.
func (b *brailleBuf) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// span sets every pixel of row y between x0 and x1 inclusive.
func (b *brailleBuf) span(y, x0, x1 int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(0, x0)
	x1 = min(b.w*2-1, x1)
	for x := x0; x <= x1; x++ {
		b.setPixel(x, y)
	}
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y, row := range b.m {
		rs := make([]rune, b.w)
		for x, mask := range row {
			if mask == 0 {
				rs[x] = ' '
			} else {
				rs[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(rs)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.confirmed = false
			return m, tea.Quit
		case "enter", "w":
			m.confirmed = true
			return m, tea.Quit
		case "a":
			if len(m.tbl.Rows()) == 0 {
				m.status = "no buildings on the plate"
				return m, nil
			}
			m.showAttrs = !m.showAttrs
			return m, nil
		case "h":
			m.helpVisible = !m.helpVisible
			return m, nil
		}
		if m.showAttrs {
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "f":
			m.fill = !m.fill
			m.status = fmt.Sprintf("fill: %v", m.fill)
		case "+", "=":
			if m.zoom < maxZoom {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > minZoom {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		ox, oy, w, h := m.mapArea()
		cx, cy := msg.X-ox, msg.Y-oy
		m.hovering = false
		if m.showAttrs || cx < 0 || cx >= w || cy < 0 || cy >= h {
			return m, nil
		}
		// centre of the cell on the micro grid
		x, y, ok := m.viewport(w, h).plate(cx*2+1, cy*4+2)
		if ok && m.onPlate(x, y) {
			m.hovering = true
			m.hoverCellX, m.hoverCellY = cx, cy
			m.hoverX, m.hoverY = x, y
		}
	}
	return m, nil
}

func (m Model) onPlate(x, y float64) bool {
	if m.res == nil {
		return false
	}
	s := m.res.BaseSize
	return x >= 0 && x <= s && y >= 0 && y <= s
}

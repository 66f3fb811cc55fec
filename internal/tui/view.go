package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, mapWidth, mapHeight := m.mapArea()
	contentWidth := mapWidth

	header := titleStyle.Render(" osm3d ─ plate preview ") + " " + outStyle.Render(m.out)
	header = lipgloss.NewStyle().Width(contentWidth).MaxHeight(headerHeight).Render(header)

	var body string
	if m.showAttrs {
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		boxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(boxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := boxStyle.Width(boxW).Render(m.tbl.View())
		body = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	} else {
		body = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderPlate(mapWidth, mapHeight))
	}

	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hovering {
		coords = dimStyle.Render(fmt.Sprintf("  x=%.1fmm y=%.1fmm  ", m.hoverX, m.hoverY))
	}
	spacerW := max(0, contentWidth-lipgloss.Width(status)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, status, right),
		m.renderHelp())
	footer = lipgloss.NewStyle().Width(contentWidth).Render(footer)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"f fill",
		"a buildings",
		"h help",
		"enter write",
		"q cancel",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

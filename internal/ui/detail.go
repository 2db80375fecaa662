package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// detailSize returns the inner size of the detail pane for the current layout.
func (m Model) detailSize() (int, int) {
	height := m.contentHeight()
	if m.width >= LayoutSplitWidth {
		return m.width - m.width*3/5 - 2, maxInt(height-3, 1)
	}
	tableHeight := maxInt(height*3/5, 4)
	return maxInt(m.width-2, 1), maxInt(height-tableHeight-3, 1)
}

// updateDetailViewport re-renders the detail pane for the selected tray.
func (m *Model) updateDetailViewport() {
	width, height := m.detailSize()
	if m.detailViewport.Width == 0 {
		m.detailViewport = viewport.New(width, height)
	}
	m.detailViewport.Width = width
	m.detailViewport.Height = height
	m.detailViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.focusBackground(m.focusedPane == 1)))
	m.detailViewport.SetContent(m.renderDetailContent(width))
}

// renderDetailContent renders the sensor view of the selected tray: its
// entity ids, native value and spool attributes.
func (m Model) renderDetailContent(width int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.focusBackground(m.focusedPane == 1))

	row, ok := m.selectedTray()
	if !ok {
		return bg.FillLine(bg.Render("Select a tray", styles.MutedText), width)
	}
	sel := m.entities.Selects[row.index]
	sensor := m.entities.Sensors[row.index]

	var lines []string
	add := func(label, value string, style lipgloss.Style) {
		line := bg.Render(padRight(label, 18), styles.MutedText) + bg.Render(truncate(value, maxInt(width-19, 4)), style)
		lines = append(lines, bg.FillLine(line, width))
	}

	lines = append(lines, bg.FillLine(bg.Render(sensor.Name(), styles.Text.Bold(true)), width))
	add("value", row.value, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(row.state()))))
	add("tray id", row.ref.ID(), styles.Text)
	add("select", sel.UniqueID(), styles.FaintText)
	add("sensor", sensor.UniqueID(), styles.FaintText)
	lines = append(lines, bg.FillLine("", width))

	if !row.hasSpool {
		lines = append(lines, bg.FillLine(bg.Render("No spool in this tray", styles.MutedText), width))
		lines = append(lines, bg.FillLine(bg.Render("enter picks one", styles.FaintText), width))
		return strings.Join(lines, "\n")
	}

	for _, attr := range row.attrs.Pairs() {
		value := attr.Value
		style := styles.Text
		if value == "" {
			value = "-"
			style = styles.FaintText
		}
		if hex := normalizeHex(attr.Value); attr.Key == "color_hex" && hex != "" {
			swatch := bg.Render("■", lipgloss.NewStyle().Foreground(lipgloss.Color(hex)))
			line := bg.Render(padRight(attr.Key, 18), styles.MutedText) + swatch + bg.Space() + bg.Render(value, style)
			lines = append(lines, bg.FillLine(line, width))
			continue
		}
		add(attr.Key, value, style)
	}

	if row.claims > 1 {
		lines = append(lines, bg.FillLine("", width))
		warn := fmt.Sprintf("%d spools claim this tray; showing the first", row.claims)
		lines = append(lines, bg.FillLine(bg.Render(warn, styles.DangerText), width))
	}
	return strings.Join(lines, "\n")
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spoolsync/internal/entity"
	"github.com/five82/spoolsync/internal/spoolman"
)

// Tray states used for coloring.
const (
	stateAssigned = "assigned"
	stateEmpty    = "empty"
	stateConflict = "conflict"
	stateLow      = "low"
	stateExternal = "external"
)

// trayRow is one line of the tray table.
type trayRow struct {
	index    int // position in the entity set
	ref      entity.TrayRef
	current  string
	value    string
	attrs    entity.Attributes
	hasSpool bool
	claims   int
}

// state classifies the row for coloring. Conflicts win over everything.
func (r trayRow) state() string {
	switch {
	case r.claims > 1:
		return stateConflict
	case !r.hasSpool:
		return stateEmpty
	case r.attrs.RemainingWeight != nil && *r.attrs.RemainingWeight < lowWeightGrams:
		return stateLow
	default:
		return stateAssigned
	}
}

// trayRows projects the entity set onto table rows, honoring the hide-empty
// preference.
func (m Model) trayRows() []trayRow {
	claims := spoolman.TrayClaims(m.snapshot.Data.Spools)
	rows := make([]trayRow, 0, m.entities.Len())
	for i, ref := range m.entities.Trays {
		sensor := m.entities.Sensors[i]
		attrs, ok := sensor.Attributes()
		if !ok && m.prefs.HideEmpty {
			continue
		}
		rows = append(rows, trayRow{
			index:    i,
			ref:      ref,
			current:  m.entities.Selects[i].CurrentOption(),
			value:    sensor.NativeValue(),
			attrs:    attrs,
			hasSpool: ok,
			claims:   claims[ref.ID()],
		})
	}
	return rows
}

// selectedTray returns the highlighted row.
func (m Model) selectedTray() (trayRow, bool) {
	rows := m.trayRows()
	if m.selectedRow < 0 || m.selectedRow >= len(rows) {
		return trayRow{}, false
	}
	return rows[m.selectedRow], true
}

func (m *Model) clampSelection() {
	count := len(m.trayRows())
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// handleTraysKey processes keyboard input for the trays view.
func (m Model) handleTraysKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.HideEmpty) {
		m.prefs.HideEmpty = !m.prefs.HideEmpty
		m.savePrefs()
		m.clampSelection()
		m.updateDetailViewport()
		return m, nil
	}

	if m.focusedPane == 1 {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}

	rows := m.trayRows()
	if len(rows) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(rows)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(rows) - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = minInt(m.selectedRow+m.contentHeight()/2, len(rows)-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = maxInt(m.selectedRow-m.contentHeight()/2, 0)
	case key.Matches(msg, m.keys.Pick):
		row := rows[m.selectedRow]
		m.modal = newSpoolPicker(m.ctx, m.entities.Selects[row.index])
		return m, nil
	case key.Matches(msg, m.keys.Unassign):
		row := rows[m.selectedRow]
		if row.current == spoolman.NoneOption {
			m.notice = row.ref.Label() + " is already empty"
			return m, nil
		}
		m.pending++
		return m, selectOptionCmd(m.ctx, m.entities.Selects[row.index], spoolman.NoneOption)
	}

	m.updateDetailViewport()
	return m, nil
}

// renderTrays lays out the tray table and the detail pane side by side on
// wide terminals and stacked otherwise.
func (m Model) renderTrays() string {
	height := m.contentHeight()
	if m.width >= LayoutSplitWidth {
		tableWidth := m.width * 3 / 5
		detailWidth := m.width - tableWidth
		table := m.renderBox(m.trayTitle(), m.renderTrayTable(tableWidth-4, height-3), tableWidth, height, m.focusedPane == 0)
		detail := m.renderBox("Spool", m.detailViewport.View(), detailWidth, height, m.focusedPane == 1)
		return lipgloss.JoinHorizontal(lipgloss.Top, table, detail)
	}

	tableHeight := maxInt(height*3/5, 4)
	detailHeight := height - tableHeight
	table := m.renderBox(m.trayTitle(), m.renderTrayTable(m.width-4, tableHeight-3), m.width, tableHeight, m.focusedPane == 0)
	detail := m.renderBox("Spool", m.detailViewport.View(), m.width, detailHeight, m.focusedPane == 1)
	return lipgloss.JoinVertical(lipgloss.Left, table, detail)
}

func (m Model) trayTitle() string {
	rows := m.trayRows()
	if m.prefs.HideEmpty {
		return fmt.Sprintf("Trays (%d/%d, empty hidden)", len(rows), m.entities.Len())
	}
	return fmt.Sprintf("Trays (%d)", len(rows))
}

// renderTrayTable renders the visible window of tray rows.
func (m Model) renderTrayTable(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.focusBackground(m.focusedPane == 0))

	if !m.snapshot.HasData {
		return bg.FillLine(bg.Render("Waiting for SpoolmanSync...", styles.MutedText), width)
	}
	rows := m.trayRows()
	if len(rows) == 0 {
		msg := "No printers found"
		if m.prefs.HideEmpty && m.entities.Len() > 0 {
			msg = "All trays are empty (H shows them)"
		}
		return bg.FillLine(bg.Render(msg, styles.MutedText), width)
	}

	showWeight := width >= LayoutWeightWidth
	nameWidth := maxInt(width*2/5, 12)
	weightWidth := 0
	if showWeight {
		weightWidth = 8
	}
	spoolWidth := maxInt(width-nameWidth-weightWidth-8, 8)

	header := "  " + padRight("TRAY", nameWidth) + " " + padRight("SPOOL", spoolWidth)
	if showWeight {
		header += " " + padRight("WEIGHT", weightWidth)
	}
	lines := []string{bg.FillLine(bg.Render(header, styles.FaintText.Bold(true)), width)}

	// Keep the selection visible.
	visible := maxInt(height-1, 1)
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := minInt(start+visible, len(rows))

	for i := start; i < end; i++ {
		lines = append(lines, m.renderTrayRow(rows[i], i == m.selectedRow, nameWidth, spoolWidth, weightWidth, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTrayRow(row trayRow, selected bool, nameWidth, spoolWidth, weightWidth, width int) string {
	styles := m.theme.Styles()
	rowBg := m.focusBackground(m.focusedPane == 0)
	if selected {
		rowBg = m.theme.SelectionBg
	}
	bg := NewBgStyle(rowBg)

	state := row.state()
	stateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(state)))
	textStyle := styles.Text
	if selected {
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
	}

	marker := ternary(selected, "▌", " ")
	name := row.ref.Label()
	nameStyle := textStyle
	if row.ref.External() {
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(stateExternal)))
	}

	spool := row.current
	spoolStyle := textStyle
	switch {
	case row.claims > 1:
		spool = fmt.Sprintf("%s (+%d)", spool, row.claims-1)
		spoolStyle = stateStyle
	case !row.hasSpool:
		spoolStyle = styles.MutedText
	}

	line := bg.Render(marker, stateStyle) + bg.Space() +
		bg.Render(padRight(truncate(name, nameWidth), nameWidth), nameStyle) + bg.Space() +
		m.swatch(row.attrs, bg) + bg.Space() +
		bg.Render(padRight(truncate(spool, spoolWidth-2), spoolWidth-2), spoolStyle)

	if weightWidth > 0 {
		line += bg.Space() + bg.Render(padRight(formatWeight(row.attrs.RemainingWeight), weightWidth), stateStyle)
	}
	return bg.FillLine(line, width)
}

// swatch renders a small block in the filament color.
func (m Model) swatch(attrs entity.Attributes, bg BgStyle) string {
	hex := normalizeHex(deref(attrs.ColorHex))
	if hex == "" {
		return bg.Spaces(1)
	}
	return bg.Render("●", lipgloss.NewStyle().Foreground(lipgloss.Color(hex)))
}

func (m Model) focusBackground(focused bool) string {
	if focused {
		return m.theme.FocusBg
	}
	return m.theme.Background
}

// renderBox draws a bordered panel with a title line.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	styles := m.theme.Styles()
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	bgColor := m.focusBackground(focused)
	bg := NewBgStyle(bgColor)

	innerWidth := maxInt(width-2, 1)
	titleLine := bg.FillLine(bg.Render(" "+title, styles.AccentText.Bold(true)), innerWidth)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(bgColor)).
		Width(innerWidth).
		Height(maxInt(height-2, 1)).
		Render(titleLine + "\n" + content)
}

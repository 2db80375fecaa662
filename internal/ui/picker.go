package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spoolsync/internal/entity"
)

const pickerVisibleRows = 12

// Modal is a dialog drawn over the tray view. Update reports done when the
// dialog should close; a command returned with done carries the tray write.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// spoolPicker lets the user choose one of a tray select's options. Typing
// filters the list.
type spoolPicker struct {
	ctx      context.Context
	sel      *entity.TraySelect
	title    string
	current  string
	options  []string
	filtered []string
	cursor   int
	filter   textinput.Model
}

func newSpoolPicker(ctx context.Context, sel *entity.TraySelect) *spoolPicker {
	ti := textinput.New()
	ti.Placeholder = "Filter spools..."
	ti.CharLimit = 64
	ti.Prompt = "/ "
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	p := &spoolPicker{
		ctx:     ctx,
		sel:     sel,
		title:   sel.Name(),
		current: sel.CurrentOption(),
		options: sel.Options(),
		filter:  ti,
	}
	p.applyFilter()
	// Start on the current option so enter without moving is a no-op.
	for i, option := range p.filtered {
		if option == p.current {
			p.cursor = i
			break
		}
	}
	return p
}

// Update implements Modal.
func (p *spoolPicker) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Cancel):
		return p, nil, true
	case key.Matches(keyMsg, keys.Confirm):
		option, ok := p.selected()
		if !ok || option == p.current {
			return p, nil, true
		}
		return p, selectOptionCmd(p.ctx, p.sel, option), true
	case keyMsg.Type == tea.KeyUp || keyMsg.Type == tea.KeyCtrlP:
		if p.cursor > 0 {
			p.cursor--
		}
		return p, nil, false
	case keyMsg.Type == tea.KeyDown || keyMsg.Type == tea.KeyCtrlN:
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}
		return p, nil, false
	}

	var cmd tea.Cmd
	before := p.filter.Value()
	p.filter, cmd = p.filter.Update(keyMsg)
	if p.filter.Value() != before {
		p.applyFilter()
	}
	return p, cmd, false
}

func (p *spoolPicker) selected() (string, bool) {
	if p.cursor < 0 || p.cursor >= len(p.filtered) {
		return "", false
	}
	return p.filtered[p.cursor], true
}

// applyFilter keeps options containing every filter word, case-insensitive.
func (p *spoolPicker) applyFilter() {
	words := strings.Fields(strings.ToLower(p.filter.Value()))
	p.filtered = p.filtered[:0]
	for _, option := range p.options {
		if matchesAll(strings.ToLower(option), words) {
			p.filtered = append(p.filtered, option)
		}
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = maxInt(len(p.filtered)-1, 0)
	}
}

func matchesAll(value string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(value, w) {
			return false
		}
	}
	return true
}

// View implements Modal.
func (p *spoolPicker) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	modalWidth := minInt(maxInt(width-10, 30), 72)
	inner := modalWidth - 6

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(p.title, inner)))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("current: " + truncate(p.current, inner-9)))
	b.WriteString("\n\n")
	b.WriteString(p.filter.View())
	b.WriteString("\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(styles.FaintText.Render("No matching spools"))
	}

	start := 0
	if p.cursor >= pickerVisibleRows {
		start = p.cursor - pickerVisibleRows + 1
	}
	end := minInt(start+pickerVisibleRows, len(p.filtered))
	for i := start; i < end; i++ {
		option := p.filtered[i]
		marker := "  "
		style := styles.Text
		if option == p.current {
			marker = "• "
			style = styles.AccentText
		}
		line := marker + truncate(option, inner-2)
		if i == p.cursor {
			line = styles.Selected.Width(inner).Render(line)
		} else {
			line = style.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter select  esc cancel  ↑/↓ move"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

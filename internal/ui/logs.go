package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spoolsync/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	entries     []logtail.Entry
	follow      bool
	lastRefresh time.Time
	err         error
	dirty       bool

	// Search
	searchActive   bool
	searchInput    textinput.Model
	searchRegex    *regexp.Regexp
	searchQuery    string
	searchMatches  []int // entry indices
	searchMatchIdx int
}

func newLogState() logState {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 128
	ti.Width = 40
	return logState{follow: true, searchInput: ti}
}

type logLinesMsg struct {
	lines []string
	err   error
}

// refreshLogs reads the tail of the log file off the UI goroutine.
func (m *Model) refreshLogs() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	m.logState.lastRefresh = time.Now()
	path := m.logPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogBufferLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		entries := make([]logtail.Entry, 0, len(msg.lines))
		for _, line := range msg.lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			entries = append(entries, logtail.Parse(line))
		}
		m.logState.entries = entries
		m.findSearchMatches()
	}
	m.logState.dirty = true
	m.updateLogViewport()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	// Box height = content height minus the status line; inner subtracts the
	// borders and the title line.
	width := maxInt(m.width-2, 1)
	height := maxInt(m.contentHeight()-1-3, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logState.dirty {
		m.logViewport.SetContent(m.renderLogContent(width))
		m.logState.dirty = false
	}
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	box := m.renderBox("Log", m.logViewport.View(), m.width, m.contentHeight()-1, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

// renderLogStatus renders the line below the log box.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	parts := []string{
		bg.Render(truncateMiddle(m.logPath, 60), styles.MutedText),
		bg.Render(fmt.Sprintf("%d lines", len(m.logState.entries)), styles.FaintText),
	}
	if m.logState.follow {
		parts = append(parts, bg.Render("FOLLOW", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("PAUSED", styles.WarningText))
	}
	switch {
	case m.logState.searchActive:
		parts = append(parts, m.logState.searchInput.View())
	case m.logState.searchRegex != nil:
		pos := 0
		if len(m.logState.searchMatches) > 0 {
			pos = m.logState.searchMatchIdx + 1
		}
		parts = append(parts, bg.Render(
			fmt.Sprintf("/%s %d/%d", m.logState.searchQuery, pos, len(m.logState.searchMatches)),
			styles.AccentText))
	}
	if m.logState.err != nil {
		parts = append(parts, bg.Render(truncate(m.logState.err.Error(), 60), styles.DangerText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderLogContent(width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	if m.logPath == "" {
		return bg.FillLine(bg.Render("Logging to a file is disabled", styles.MutedText), width)
	}
	if len(m.logState.entries) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	current := -1
	if len(m.logState.searchMatches) > 0 {
		current = m.logState.searchMatches[m.logState.searchMatchIdx]
	}
	matchBg := NewBgStyle(m.theme.SurfaceAlt)

	lines := make([]string, 0, len(m.logState.entries))
	for i, entry := range m.logState.entries {
		switch {
		case i == current:
			lines = append(lines, matchBg.FillLine(matchBg.Render("> ", styles.AccentText)+m.renderLogEntry(entry, styles, matchBg), width))
		case m.logState.searchRegex != nil && m.logState.searchRegex.MatchString(entry.Raw):
			lines = append(lines, matchBg.FillLine(m.renderLogEntry(entry, styles, matchBg), width))
		default:
			lines = append(lines, bg.FillLine(m.renderLogEntry(entry, styles, bg), width))
		}
	}
	return strings.Join(lines, "\n")
}

// renderLogEntry colors one parsed logrus line: faint timestamp, level by
// severity, message, then muted key=value fields.
func (m Model) renderLogEntry(entry logtail.Entry, styles Styles, bg BgStyle) string {
	if entry.Level == "" {
		return bg.Render(entry.Raw, styles.Text)
	}

	var b strings.Builder
	if entry.Time != "" {
		b.WriteString(bg.Render(entry.Time, styles.FaintText))
		b.WriteString(bg.Space())
	}
	level := strings.ToUpper(entry.Level)
	if len(level) > 4 {
		level = level[:4]
	}
	b.WriteString(bg.Render(padRight(level, 4), levelStyle(entry.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(entry.Message, styles.Text))
	for _, field := range entry.Fields {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(field.Key+"=", styles.FaintText))
		b.WriteString(bg.Render(field.Value, styles.MutedText))
	}
	return b.String()
}

// levelStyle returns the style for a logrus level name.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "info":
		return styles.SuccessText
	case "warning", "warn":
		return styles.WarningText
	case "error", "fatal", "panic":
		return styles.DangerText
	case "debug", "trace":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logState.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.logState.searchActive = true
		m.logState.searchInput.SetValue("")
		return m, m.logState.searchInput.Focus()
	case key.Matches(msg, m.keys.NextMatch):
		m.stepSearchMatch(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevMatch):
		m.stepSearchMatch(-1)
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.clearLogSearch()
		m.updateLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogs()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logState.follow = false
		m.logViewport.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		m.logViewport.ScrollUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		return m, nil
	}
	return m, nil
}

// handleLogSearchInput handles keyboard input while the search prompt is open.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.logState.searchInput.Value()
		if query == "" {
			m.logState.searchActive = false
			m.logState.searchInput.Blur()
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			// Invalid pattern, keep the prompt open.
			return m, nil
		}
		m.logState.searchRegex = re
		m.logState.searchQuery = query
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.findSearchMatches()
		if len(m.logState.searchMatches) > 0 {
			m.scrollToSearchMatch()
		}
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) clearLogSearch() {
	m.logState.searchRegex = nil
	m.logState.searchQuery = ""
	m.logState.searchMatches = nil
	m.logState.searchMatchIdx = 0
	m.logState.dirty = true
}

// findSearchMatches records the entries matching the current pattern.
func (m *Model) findSearchMatches() {
	m.logState.searchMatches = nil
	m.logState.dirty = true
	if m.logState.searchRegex == nil {
		return
	}
	for i, entry := range m.logState.entries {
		if m.logState.searchRegex.MatchString(entry.Raw) {
			m.logState.searchMatches = append(m.logState.searchMatches, i)
		}
	}
	if m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		m.logState.searchMatchIdx = maxInt(len(m.logState.searchMatches)-1, 0)
	}
}

// stepSearchMatch moves delta matches forward, wrapping at either end.
func (m *Model) stepSearchMatch(delta int) {
	n := len(m.logState.searchMatches)
	if n == 0 {
		return
	}
	m.logState.searchMatchIdx = ((m.logState.searchMatchIdx+delta)%n + n) % n
	m.logState.dirty = true
	m.scrollToSearchMatch()
	m.updateLogViewport()
}

// scrollToSearchMatch centers the current match when possible.
func (m *Model) scrollToSearchMatch() {
	if len(m.logState.searchMatches) == 0 {
		return
	}
	target := m.logState.searchMatches[m.logState.searchMatchIdx]
	m.logState.follow = false
	m.logViewport.SetYOffset(maxInt(target-m.logViewport.Height/2, 0))
}

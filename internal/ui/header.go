package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spoolsync/internal/spoolman"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasData {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before the first successful refresh.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.snapshot.LastUpdated.IsZero() {
			last = m.snapshot.LastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render("spoolsync", styles.Logo),
			bg.Render("SPOOLMANSYNC "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		}
		if m.serverURL != "" {
			parts = append(parts, bg.Render(truncateMiddle(m.serverURL, 40), styles.MutedText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("spoolsync", styles.Logo) + sep +
			bg.Render("Connecting to SpoolmanSync...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("spoolsync", styles.Logo))

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	if !compact && m.serverURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.serverURL, 40), styles.MutedText))
	}

	loaded, conflicts := m.trayCounts()
	parts = append(parts,
		bg.Render("Trays:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d/%d", loaded, m.entities.Len()), styles.Text),
		bg.Render("Spools:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Data.Spools)), styles.Text),
	)
	if conflicts > 0 {
		parts = append(parts,
			bg.Render("Conflicts:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", conflicts), styles.DangerText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.pending > 0 {
		parts = append(parts, bg.Render("Saving...", styles.WarningText.Bold(true)))
	} else if m.notice != "" {
		parts = append(parts, bg.Render(truncate(m.notice, 48), styles.InfoText))
	}

	if m.snapshot.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText),
		)
	}

	return bg.Join(parts, "  ")
}

// trayCounts returns how many trays hold a spool and how many are claimed by
// more than one spool.
func (m Model) trayCounts() (loaded, conflicts int) {
	claims := spoolman.TrayClaims(m.snapshot.Data.Spools)
	for _, ref := range m.entities.Trays {
		switch n := claims[ref.ID()]; {
		case n > 1:
			loaded++
			conflicts++
		case n == 1:
			loaded++
		}
	}
	return loaded, conflicts
}

// formatTimestamp formats the last successful refresh with a relative age.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastSuccess
	if last.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", last.Format("15:04:05"), humanizeDuration(time.Since(last)))
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "HTTP ERROR"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"g/G", "Top/End"},
			{"t", "Trays"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"enter", "Spool"},
			{"u", "Empty"},
			{"r", "Refresh"},
			{"H", ternary(m.prefs.HideEmpty, "Show empty", "Hide empty")},
			{"j/k", "Navigate"},
			{"l", "Logs"},
			{"Tab", "Focus"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders segments onto one background color. lipgloss resets the
// background after every styled segment, which leaves unpainted gaps between
// words and between cells of a tray row; BgStyle paints those gaps too.
type BgStyle struct {
	bg    lipgloss.Color
	base  lipgloss.Style
	space string
}

// NewBgStyle returns a BgStyle painting onto bgColor.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	base := lipgloss.NewStyle().Background(bg)
	return BgStyle{bg: bg, base: base, space: base.Render(" ")}
}

// Render styles text on the background, painting the spaces between words.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns one painted space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n painted spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.base.Render(strings.Repeat(" ", n))
}

// Sep paints a literal separator.
func (b BgStyle) Sep(sep string) string {
	return b.base.Render(sep)
}

// Join joins rendered segments with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// FillLine pads content to width so a tray row or log line is painted edge
// to edge.
func (b BgStyle) FillLine(content string, width int) string {
	return b.base.Width(width).Render(content)
}

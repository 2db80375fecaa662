package ui

import (
	"fmt"
	"strings"
	"time"
)

// humanizeDuration renders d as a short relative age such as "12s" or "2h 3m".
func humanizeDuration(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}

// formatWeight renders a remaining weight in grams, or "-" when unknown.
func formatWeight(w *float64) string {
	if w == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f g", *w)
}

// normalizeHex turns a filament color such as "FF0000", "#ff0000" or
// "ff0000ff" into "#ff0000". Anything else yields "".
func normalizeHex(raw string) string {
	hex := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "#")
	if len(hex) == 8 {
		hex = hex[:6]
	}
	if len(hex) != 6 {
		return ""
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return ""
		}
	}
	return "#" + hex
}

// deref returns the pointed-to string or "".
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

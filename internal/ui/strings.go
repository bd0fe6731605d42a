package ui

import (
	"fmt"
	"strings"
	"time"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// humanizeSince formats the time elapsed since t as relative Portuguese text.
func humanizeSince(t, now time.Time) string {
	if t.IsZero() {
		return "nunca"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "agora"
	case d < time.Hour:
		return fmt.Sprintf("há %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("há %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("há %dd", int(d.Hours()/24))
	}
}

// formatPercent renders a cashback percentage without trailing zeros.
func formatPercent(p float64) string {
	if p == float64(int(p)) {
		return fmt.Sprintf("%d%%", int(p))
	}
	return strings.Replace(fmt.Sprintf("%.1f%%", p), ".", ",", 1)
}

// formatRating renders a 0-5 rating with one decimal, or "" when unrated.
func formatRating(r float64) string {
	if r <= 0 {
		return ""
	}
	return strings.Replace(fmt.Sprintf("★ %.1f", r), ".", ",", 1)
}

// window returns at most height lines from lines, scrolled so that line
// focus stays visible.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := 0
	if focus >= height {
		start = focus - height + 1
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}

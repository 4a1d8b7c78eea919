package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	barFilled = "━"
	barEmpty  = "─"
)

// ProgressBar renders done/total as a fixed-width bar. An unknown or zero
// total renders empty.
func ProgressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// FormatDuration formats a duration as 42s, 3m12s or 1h05m
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// ETA estimates the time left from the pace so far
func ETA(done, total int, elapsed time.Duration) string {
	if total > 0 && done >= total {
		return "0s"
	}
	if done == 0 {
		return "calculating..."
	}
	perItem := elapsed / time.Duration(done)
	return FormatDuration(perItem * time.Duration(total-done))
}

// Package stats holds the pure numeric helpers shared by the report
// extractors and the presentation layer. None of these functions mutate their
// inputs; formatting is display-only.
package stats

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// PercentOfTotal returns 100*part/total, or 0 when total is zero.
func PercentOfTotal(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// PercentChange returns the period-over-period change in percent. A nil
// result means "no previous data": the previous value was zero while the
// current one is not, so no meaningful ratio exists. When both periods are
// zero the change is 0, not nil; the UI must not conflate the two.
func PercentChange(current, previous float64) *float64 {
	if previous == 0 {
		if current == 0 {
			zero := 0.0
			return &zero
		}
		return nil
	}
	change := (current - previous) / previous * 100
	return &change
}

// FormatDuration renders a second count as a compact human string, rounding
// to the nearest whole second: 0 -> "0s", 45.2 -> "45s", 207 -> "3m 27s",
// 3845 -> "1h 4m 5s". Zero-valued leading units are omitted.
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total <= 0 {
		return "0s"
	}

	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 || h > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", s))
	return strings.Join(parts, " ")
}

// FormatCount renders a large count with a magnitude suffix (12.3K, 4.5M,
// 1.2B) and locale-aware grouping below a thousand.
func FormatCount(n float64) string {
	abs := math.Abs(n)
	switch {
	case abs >= 1e9:
		return trimZero(printer.Sprintf("%.1f", n/1e9)) + "B"
	case abs >= 1e6:
		return trimZero(printer.Sprintf("%.1f", n/1e6)) + "M"
	case abs >= 1e3:
		return trimZero(printer.Sprintf("%.1f", n/1e3)) + "K"
	default:
		return printer.Sprintf("%.0f", n)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

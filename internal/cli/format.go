package cli

import (
	"fmt"
	"strings"
)

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPrice formats a price with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// FormatVolume formats volume in compact form.
func FormatVolume(volume int64) string {
	switch {
	case volume >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(volume)/1_000_000_000)
	case volume >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(volume)/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("%.2fK", float64(volume)/1_000)
	}
	return fmt.Sprintf("%d", volume)
}

// ScoreBar renders a 0-100 score as a fixed-width bar.
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := int(score / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// FormatRating renders a rating constant as display text, e.g.
// "strong_buy" -> "STRONG BUY".
func FormatRating(rating string) string {
	return strings.ToUpper(strings.ReplaceAll(rating, "_", " "))
}

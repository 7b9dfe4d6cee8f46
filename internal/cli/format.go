// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/klidoop/fire-calculation/internal/model"
)

// FormatMoney formats a dollar amount. Large values drop the cents.
// e.g., 1006709.71 -> "$1,006,710", 12.5 -> "$12.50", -3400 -> "-$3,400"
func FormatMoney(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	if v >= 1000 {
		return "$" + FormatNumber(int64(math.Round(v)))
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatCompact formats a dollar amount with a magnitude suffix.
// e.g., 1234 -> "$1.2K", 1006709 -> "$1.01M"
func FormatCompact(v float64) string {
	if v < 0 {
		return "-" + FormatCompact(-v)
	}

	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatStep labels a trigger step: "age 57" or "27 years".
func FormatStep(mode model.Mode, step int) string {
	if mode == model.ModeWithdrawalRate {
		if step == 1 {
			return "1 year"
		}
		return fmt.Sprintf("%d years", step)
	}
	return fmt.Sprintf("age %d", step)
}

// FormatDelta formats the signed difference between two amounts.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return FormatMoney(delta)
}

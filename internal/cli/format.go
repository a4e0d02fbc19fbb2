package cli

import (
	"fmt"
	"math"
	"strings"
)

// FormatMoney formats a signed currency amount: explicit sign, dollar
// symbol, thousands separators, at most two decimal places.
func FormatMoney(v float64) string {
	sign := "+"
	if v < 0 {
		sign = "-"
	}
	return sign + "$" + groupThousands(trimDecimals(math.Abs(v)))
}

// FormatNum formats a plain number with at most two decimal places.
func FormatNum(v float64) string {
	return groupThousands(trimDecimals(v))
}

// FormatPercent formats a percentage with one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatR formats an R multiple.
func FormatR(v float64) string {
	return fmt.Sprintf("%.2fR", v)
}

// FormatProfitFactor renders the profit factor, using the infinity glyph
// for the no-losing-trades case.
func FormatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", pf)
}

// trimDecimals renders with two decimals, then drops trailing zeros.
func trimDecimals(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// groupThousands inserts comma separators into the integer part.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, decPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, decPart = s[:i], s[i:]
	}
	n := len(intPart)
	if n > 3 {
		var b strings.Builder
		for i, r := range intPart {
			if i > 0 && (n-i)%3 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(r)
		}
		intPart = b.String()
	}
	out := intPart + decPart
	if neg {
		out = "-" + out
	}
	return out
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

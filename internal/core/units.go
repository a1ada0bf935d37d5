package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseQuantity parses a numeric cell. Empty or malformed values yield NaN so
// they propagate through the emissions arithmetic instead of being dropped.
func ParseQuantity(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatQuantity renders a value for flat files: shortest round-trip
// representation, "NaN" for NaN.
func FormatQuantity(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatKg renders kilograms with two decimals and thousands separators,
// e.g. 1234567.891 -> "1,234,567.89".
func FormatKg(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// KgToTonnes converts kilograms to metric tonnes.
func KgToTonnes(kg float64) float64 {
	return kg / 1000
}

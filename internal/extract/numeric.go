package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a locale-formatted numeric token into an exact decimal.
// Tolerated inputs include space or dot thousands separators, comma or dot
// decimal markers, currency suffixes and signs. Malformed or empty input
// yields zero with ok=false, never an error: a missing field must not abort
// the batch, and the caller records a field-quality marker instead.
func ParseAmount(token string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return decimal.Zero, false
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '-', r == ',', r == '.':
			b.WriteRune(r)
		case r == ' ', r == ' ', r == ' ', r == '\t':
			// thousands separators
		case r == '€', r == '$':
			// currency markers
		default:
			// letters (EUR, Eur) and stray punctuation
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// the later separator is the decimal marker
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 && len(cleaned)-lastComma-1 == 3 {
			// repeated three-digit groups: thousands, not decimals
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

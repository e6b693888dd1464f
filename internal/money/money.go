// Package money normalizes German-formatted monetary amounts and dates
// into the integer-cents and YYYYMMDD representations the accounting
// export expects. All functions are pure and fail closed: unparsable
// amounts collapse to 0 cents, unparsable dates to the empty string.
// Callers that need strictness must validate before converting.
package money

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// germanDateFormats lists accepted input layouts, most common first.
var germanDateFormats = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2.1.06",
}

// ParseGermanAmount converts a German-formatted decimal string like
// "1.234,56" or "-45,00 €" into integer cents. Thousands dots are
// stripped, the comma becomes the decimal point, and the value is
// rounded to 2 places before scaling. Unparsable input yields 0.
func ParseGermanAmount(s string) int64 {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = cleaned[1:]
	}

	// Strip currency decorations
	cleaned = strings.ReplaceAll(cleaned, "€", "")
	cleaned = strings.ReplaceAll(cleaned, "EUR", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimSpace(cleaned)

	if strings.Contains(cleaned, ",") {
		// German format: dots are thousands separators, comma is decimal
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else if strings.Count(cleaned, ".") > 1 {
		// Multiple dots without a comma: all thousands separators
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}

	cents := d.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	if negative {
		cents = -cents
	}
	return cents
}

// ToISODate converts a "DD.MM.YYYY" string into "YYYYMMDD".
// Returns "" when the input does not parse as a real calendar date.
func ToISODate(s string) string {
	t, ok := ParseGermanDate(s)
	if !ok {
		return ""
	}
	return t.Format("20060102")
}

// ParseGermanDate parses a German-formatted date string. Unlike the
// lenient field validator this goes through time.Parse, so impossible
// calendar dates (31.02.) are rejected.
func ParseGermanDate(s string) (time.Time, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, false
	}
	for _, format := range germanDateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatCents renders integer cents back into the German "1234,56"
// notation used in console summaries.
func FormatCents(cents int64) string {
	d := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

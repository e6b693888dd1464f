// Package validate holds the per-field format checks applied to
// extracted invoice fields before export, plus the confidence scoring
// that folds a pass/fail outcome into an OCR confidence value.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	invoiceNumberPattern = regexp.MustCompile(`^\d{9,10}$`)
	datePattern          = regexp.MustCompile(`^\d{8}$`)
	debtorNumberPattern  = regexp.MustCompile(`^\d{9,11}$`)
	amountPattern        = regexp.MustCompile(`^\d+([,.]\d{1,2})?$`)
	bookingTextPattern   = regexp.MustCompile(`^\d{4}\s+[A-Z]{2}\s+[A-Z]{2}`)
)

// Result carries the outcome of a single field check.
type Result struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// InvoiceNumber checks for exactly 9-10 ASCII digits.
func InvoiceNumber(s string) (bool, string) {
	if s == "" {
		return false, "Belegnummer fehlt"
	}
	if !invoiceNumberPattern.MatchString(s) {
		return false, fmt.Sprintf("Belegnummer %q hat nicht 9-10 Ziffern", s)
	}
	return true, ""
}

// Date checks an 8-digit YYYYMMDD string with independent range checks
// on year (2000-2099), month (1-12) and day (1-31). There is no
// month-length or leap-year cross-check; 20250231 passes. The export
// import has always tolerated such values and tightening here would
// reject previously accepted files.
func Date(s string) (bool, string) {
	if s == "" {
		return false, "Belegdatum fehlt"
	}
	if !datePattern.MatchString(s) {
		return false, fmt.Sprintf("Belegdatum %q hat nicht 8 Ziffern", s)
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[4:6])
	day, _ := strconv.Atoi(s[6:8])
	if year < 2000 || year > 2099 {
		return false, fmt.Sprintf("Jahr %d liegt nicht zwischen 2000 und 2099", year)
	}
	if month < 1 || month > 12 {
		return false, fmt.Sprintf("Monat %d liegt nicht zwischen 1 und 12", month)
	}
	if day < 1 || day > 31 {
		return false, fmt.Sprintf("Tag %d liegt nicht zwischen 1 und 31", day)
	}
	return true, ""
}

// DebtorNumber checks for 9-11 digits.
func DebtorNumber(s string) (bool, string) {
	if s == "" {
		return false, "Debitorennummer fehlt"
	}
	if !debtorNumberPattern.MatchString(s) {
		return false, fmt.Sprintf("Debitorennummer %q hat nicht 9-11 Ziffern", s)
	}
	return true, ""
}

// Amount checks a plain decimal amount with at most 2 decimal places.
func Amount(s string) (bool, string) {
	if s == "" {
		return false, "Betrag fehlt"
	}
	if !amountPattern.MatchString(s) {
		return false, fmt.Sprintf("Betrag %q ist kein gültiger Dezimalwert", s)
	}
	return true, ""
}

// BookingText accepts either the structured "<4 digits> <2 letters>
// <2 letters>" prefix or, leniently, any text of at least 10 characters.
func BookingText(s string) (bool, string) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false, "Buchungstext fehlt"
	}
	if bookingTextPattern.MatchString(trimmed) {
		return true, ""
	}
	if len([]rune(trimmed)) >= 10 {
		return true, ""
	}
	return false, fmt.Sprintf("Buchungstext %q ist zu kurz und entspricht nicht dem Muster", s)
}

// FieldConfidence folds a validation outcome into an OCR confidence
// value: +20 on pass, -30 on fail, clamped to [0,100].
func FieldConfidence(ocrConfidence float64, valid bool) float64 {
	if valid {
		ocrConfidence += 20
	} else {
		ocrConfidence -= 30
	}
	if ocrConfidence > 100 {
		return 100
	}
	if ocrConfidence < 0 {
		return 0
	}
	return ocrConfidence
}

// Fields runs all field validators against an assembled row's values
// and returns the failed checks. Keys follow the export column names.
func Fields(invoiceNumber, isoDate, debtorNumber, amount, bookingText string) []Result {
	var results []Result
	checks := []struct {
		field string
		fn    func(string) (bool, string)
		value string
	}{
		{"BELEG_NR", InvoiceNumber, invoiceNumber},
		{"BELEG_DAT", Date, isoDate},
		{"DEBI_KREDI", DebtorNumber, debtorNumber},
		{"BETRAG", Amount, amount},
		{"BUCH_TEXT", BookingText, bookingText},
	}
	for _, c := range checks {
		ok, msg := c.fn(c.value)
		results = append(results, Result{Field: c.field, Valid: ok, Message: msg})
	}
	return results
}

// AllValid reports whether every result in the slice passed.
func AllValid(results []Result) bool {
	for _, r := range results {
		if !r.Valid {
			return false
		}
	}
	return true
}

package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"belegexport/internal/money"
)

// minOCRAmountCents is the amount above which an OCR line is accepted
// without further evidence. Smaller amounts need a service keyword or a
// quantity pattern, since OCR text interleaves noise numbers (page
// numbers, dates, postal codes) with real line amounts.
const minOCRAmountCents = 1000

// ocrAcceptKeywords are service-type words that vouch for a small-amount
// line. Matched as plain substrings, longest variants first.
var ocrAcceptKeywords = []string{
	"Bekleidungsgeld",
	"Bekleidung",
	"Taschengeld",
	"Unterbringung",
	"Schillwiese",
	"Gruppe",
	"UMAs",
	"UMA",
	"Heim",
	"WG",
}

// ocrSkipKeywords mark totals and footer lines that must not become
// line items.
var ocrSkipKeywords = []string{
	"Nettobetrag",
	"Rechnungsbetrag",
	"Zahlbetrag",
	"Gesamtbetrag",
	"Endbetrag",
	"Zwischensumme",
	"Übertrag",
	"Umsatzsteuer",
	"MwSt",
	"USt",
	"Steuernummer",
	"Steuer-Nr",
	"IBAN",
	"BIC",
	"Seite",
	"Summe",
	"Gesamt",
	"Total",
}

var (
	ocrAmountPattern   = regexp.MustCompile(amountToken)
	quantityPattern    = regexp.MustCompile(`(\d{1,3}(?:[,.]\d{1,2})?)\s*(Stunden|Std\.?|Tage|x)\b`)
	numericOnlyPattern = regexp.MustCompile(`^[0-9 .,/:€\-]+$`)
)

// ParseOCRText recovers line items from raw OCR page text. For every
// non-skipped line the last German-formatted amount is taken as the
// line amount and everything before it as the description, with other
// embedded amounts stripped. The accept policy trades recall for
// precision; see the keyword and threshold constants above.
func ParseOCRText(page RawPage, meta InvoiceMetadata) []LineItem {
	var items []LineItem

	for _, line := range strings.Split(page.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isSkipLine(line) {
			continue
		}

		locs := ocrAmountPattern.FindAllStringIndex(line, -1)
		if len(locs) == 0 {
			continue
		}
		last := locs[len(locs)-1]
		amountCents := money.ParseGermanAmount(line[last[0]:last[1]])

		description := cleanOCRDescription(line[:last[0]])
		if !acceptOCRLine(description, amountCents, line) {
			continue
		}

		item := LineItem{
			PageNum:        page.Number,
			InvoiceNumber:  meta.InvoiceNumber,
			InvoiceSuffix:  meta.InvoiceSuffix,
			InvoiceDate:    meta.InvoiceDate,
			CustomerNumber: meta.CustomerNumber,
			Description:    description,
			Amount:         decimal.NewFromInt(amountCents).Div(decimal.NewFromInt(100)),
			AmountCents:    amountCents,
			Confidence:     page.Confidence,
		}
		if m := quantityPattern.FindStringSubmatch(line); m != nil {
			item.Quantity = m[1]
		}
		if my := monthYearPattern.FindString(line); my != "" {
			item.MonthYear = my
		}
		items = append(items, item)
	}

	ReconcilePage(items, FindStatedTotal(page.Text))
	return items
}

func isSkipLine(line string) bool {
	for _, keyword := range ocrSkipKeywords {
		if strings.Contains(line, keyword) {
			return true
		}
	}
	return false
}

// cleanOCRDescription strips embedded amounts and currency leftovers
// from the text before the line amount.
func cleanOCRDescription(s string) string {
	s = ocrAmountPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, "EUR", "")
	return strings.Trim(s, " \t-–:;")
}

func acceptOCRLine(description string, amountCents int64, line string) bool {
	if len([]rune(description)) < 3 {
		return false
	}
	if numericOnlyPattern.MatchString(description) {
		return false
	}
	if amountCents >= minOCRAmountCents {
		return true
	}
	for _, keyword := range ocrAcceptKeywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}
	return quantityPattern.MatchString(line)
}

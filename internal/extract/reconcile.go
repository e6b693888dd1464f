package extract

import (
	"fmt"
	"regexp"
	"strings"

	"belegexport/internal/money"
)

// ToleranceCents is the absolute difference up to which a page mismatch
// is annotated as a probable rounding artifact. The annotation is
// informational, amounts are never auto-corrected.
const ToleranceCents = 50

// amountToken matches a German decimal amount with 2 decimal places,
// with or without thousands dots ("1.234,56", "1234,56").
const amountToken = `(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}`

// totalKeywords is the lookup chain for the stated page total, most
// payment-relevant first.
var totalKeywords = []string{
	"Rechnungsbetrag",
	"Zahlbetrag",
	"Endbetrag",
	"Gesamtbetrag",
	"Gesamt",
	"Total",
	"Betrag",
	"Summe",
}

var (
	amountTokenPattern   = regexp.MustCompile(amountToken)
	currencyTotalPattern = regexp.MustCompile(`(` + amountToken + `)\s*(?:€|EUR)`)
)

// FindStatedTotal locates the invoice total printed on a page. The
// keyword chain is walked in order and the first keyword line carrying
// an amount wins; when no keyword hits, the largest amount with a
// trailing currency sign is used as a fallback. Returns 0 when nothing
// was found.
func FindStatedTotal(text string) int64 {
	lines := strings.Split(text, "\n")
	for _, keyword := range totalKeywords {
		for _, line := range lines {
			if !strings.Contains(line, keyword) {
				continue
			}
			if m := amountTokenPattern.FindString(line); m != "" {
				return money.ParseGermanAmount(m)
			}
		}
	}

	var largest int64
	for _, m := range currencyTotalPattern.FindAllStringSubmatch(text, -1) {
		if cents := money.ParseGermanAmount(m[1]); cents > largest {
			largest = cents
		}
	}
	return largest
}

// ReconcilePage checks the accepted line items of one page against the
// stated total and stamps every item with the outcome. A zero total
// leaves the items at ReconUnknown.
func ReconcilePage(items []LineItem, totalCents int64) {
	if len(items) == 0 || totalCents == 0 {
		return
	}

	var sum int64
	for _, item := range items {
		sum += item.AmountCents
	}

	if sum == totalCents {
		for i := range items {
			items[i].ReconStatus = ReconOK
			items[i].ReconMessage = ""
		}
		return
	}

	diff := sum - totalCents
	msg := fmt.Sprintf("Positionssumme %s weicht vom angegebenen Betrag %s ab (Differenz %+d Cent)",
		money.FormatCents(sum), money.FormatCents(totalCents), diff)
	withinTolerance := diff <= ToleranceCents && diff >= -ToleranceCents

	for i := range items {
		items[i].ReconStatus = ReconMismatch
		items[i].ReconMessage = msg
		if withinTolerance {
			items[i].DifferenceCents = diff
		}
	}
}

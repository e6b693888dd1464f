package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// courseLinePattern matches one tutoring course line:
// "01/25 Mathematik 8 Zeitstunden á 35,00 €".
var courseLinePattern = regexp.MustCompile(`(\d{2}/\d{2})\s+(\D+?)\s+(\d+)\s+Zeitstunden?\s+á\s+(\d+(?:,\d{1,2})?)\s*€`)

var leadingNumberPattern = regexp.MustCompile(`^\d`)

// ParseLernfoerderung extracts the course lines of a tutoring-subsidy
// invoice page. Pre-parsed detail tables are consumed first; when no
// table row matched, the raw text lines are scanned with the same
// pattern. The amount is always hours times hourly rate, the printed
// row total is only used for reconciliation.
func ParseLernfoerderung(page RawPage, meta InvoiceMetadata) []LineItem {
	var items []LineItem

	for _, table := range page.Tables {
		for _, row := range table {
			if len(row) == 0 || !leadingNumberPattern.MatchString(strings.TrimSpace(row[0])) {
				continue
			}
			line := strings.TrimSpace(strings.Join(row, " "))
			if item, ok := parseCourseLine(line, page, meta); ok {
				items = append(items, item)
			}
		}
	}

	if len(items) == 0 {
		for _, line := range strings.Split(page.Text, "\n") {
			if item, ok := parseCourseLine(strings.TrimSpace(line), page, meta); ok {
				items = append(items, item)
			}
		}
	}

	ReconcilePage(items, FindStatedTotal(page.Text))
	return items
}

func parseCourseLine(line string, page RawPage, meta InvoiceMetadata) (LineItem, bool) {
	m := courseLinePattern.FindStringSubmatch(line)
	if m == nil {
		return LineItem{}, false
	}

	monthYear := m[1]
	subject := strings.TrimSpace(m[2])
	hoursStr := m[3]
	rateStr := m[4]

	hours, err := decimal.NewFromString(hoursStr)
	if err != nil {
		return LineItem{}, false
	}
	rate, err := decimal.NewFromString(strings.Replace(rateStr, ",", ".", 1))
	if err != nil {
		return LineItem{}, false
	}

	amount := hours.Mul(rate).Round(2)

	return LineItem{
		PageNum:        page.Number,
		InvoiceNumber:  meta.InvoiceNumber,
		InvoiceSuffix:  meta.InvoiceSuffix,
		InvoiceDate:    meta.InvoiceDate,
		CustomerNumber: meta.CustomerNumber,
		Description:    subject,
		MonthYear:      monthYear,
		Quantity:       hoursStr,
		Rate:           rateStr,
		Amount:         amount,
		AmountCents:    amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Confidence:     page.Confidence,
	}, true
}

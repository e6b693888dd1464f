package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"belegexport/internal/money"
)

// careSectionMarker opens the itemized service block of a care invoice.
const careSectionMarker = "Folgende Leistungen wurden erbracht"

// careSummarySubject is the description of the synthetic per-invoice
// summary row appended after the totals.
const careSummarySubject = "SUMME (Bereitschaftspflege)"

var (
	careLinePattern = regexp.MustCompile(`^(\d{1,3})\s+(.+?)\s+(` + amountToken + `)\s*€?\s*$`)

	// perDiemPattern strips an embedded daily-rate note from the
	// description, e.g. "(35,00 € pro Tag)".
	perDiemPattern = regexp.MustCompile(`\(?\s*` + amountToken + `\s*€\s*(?:pro\s+Tag|je\s+Tag|/\s*Tag|täglich)\s*\)?`)

	monthYearPattern = regexp.MustCompile(`\b((?:Januar|Februar|März|April|Mai|Juni|Juli|August|September|Oktober|November|Dezember|Jan|Feb|Mär|Apr|Jun|Jul|Aug|Sep|Okt|Nov|Dez)\.?\s+\d{2,4}|\d{2}/\d{2,4})\b`)

	nettoPattern    = regexp.MustCompile(`Nettobetrag\s*:?\s*(` + amountToken + `)`)
	rechnungPattern = regexp.MustCompile(`Rechnungsbetrag\s*:?\s*(` + amountToken + `)`)
	abzugPattern    = regexp.MustCompile(`abzüglich[^\d\n]*(` + amountToken + `)`)
	zahlPattern     = regexp.MustCompile(`Zahlbetrag\s*:?\s*(` + amountToken + `)`)
)

// ParseBereitschaft extracts the itemized service lines of an on-call
// foster-care invoice page, reconciles them against the Nettobetrag
// (else Rechnungsbetrag) and appends the synthetic summary row carrying
// the payment-relevant total.
func ParseBereitschaft(page RawPage, meta InvoiceMetadata) []LineItem {
	items := parseCareLines(page, meta)
	totals := ParseCareTotals(page.Text)

	statedTotal := totals.NettoCents
	if statedTotal == 0 {
		statedTotal = totals.RechnungCents
	}
	ReconcilePage(items, statedTotal)

	summary := buildCareSummary(page, meta, items, totals)
	if summary.AmountCents != 0 || len(items) > 0 {
		items = append(items, summary)
	}
	return items
}

func parseCareLines(page RawPage, meta InvoiceMetadata) []LineItem {
	idx := strings.Index(page.Text, careSectionMarker)
	if idx < 0 {
		return nil
	}

	var items []LineItem
	for _, line := range strings.Split(page.Text[idx+len(careSectionMarker):], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "Nettobetrag") {
			break
		}

		m := careLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		description := strings.TrimSpace(perDiemPattern.ReplaceAllString(m[2], ""))
		amountCents := money.ParseGermanAmount(m[3])

		item := LineItem{
			PageNum:        page.Number,
			InvoiceNumber:  meta.InvoiceNumber,
			InvoiceSuffix:  meta.InvoiceSuffix,
			InvoiceDate:    meta.InvoiceDate,
			CustomerNumber: meta.CustomerNumber,
			Description:    description,
			Quantity:       m[1],
			Amount:         decimal.NewFromInt(amountCents).Div(decimal.NewFromInt(100)),
			AmountCents:    amountCents,
			CareMode:       true,
			Confidence:     page.Confidence,
		}
		if my := monthYearPattern.FindString(description); my != "" {
			item.MonthYear = my
		}
		items = append(items, item)
	}
	return items
}

// ParseCareTotals reads the four page-level totals via independent
// patterns. Absent totals stay zero.
func ParseCareTotals(text string) CareTotals {
	var totals CareTotals
	if m := nettoPattern.FindStringSubmatch(text); m != nil {
		totals.NettoCents = money.ParseGermanAmount(m[1])
	}
	if m := rechnungPattern.FindStringSubmatch(text); m != nil {
		totals.RechnungCents = money.ParseGermanAmount(m[1])
	}
	if m := abzugPattern.FindStringSubmatch(text); m != nil {
		totals.AbzugCents = money.ParseGermanAmount(m[1])
	}
	if m := zahlPattern.FindStringSubmatch(text); m != nil {
		totals.ZahlCents = money.ParseGermanAmount(m[1])
	}
	return totals
}

func buildCareSummary(page RawPage, meta InvoiceMetadata, items []LineItem, totals CareTotals) LineItem {
	cents := totals.SummaryCents()
	summary := LineItem{
		PageNum:        page.Number,
		InvoiceNumber:  meta.InvoiceNumber,
		InvoiceSuffix:  meta.InvoiceSuffix,
		InvoiceDate:    meta.InvoiceDate,
		CustomerNumber: meta.CustomerNumber,
		Description:    careSummarySubject,
		Amount:         decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)),
		AmountCents:    cents,
		CareMode:       true,
		Summary:        true,
		Confidence:     page.Confidence,
	}
	if len(items) > 0 {
		// The summary shares the page's reconciliation outcome.
		summary.ReconStatus = items[0].ReconStatus
		summary.ReconMessage = items[0].ReconMessage
		summary.DifferenceCents = items[0].DifferenceCents
		summary.MonthYear = items[0].MonthYear
	}
	return summary
}

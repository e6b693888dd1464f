package extract

import "github.com/shopspring/decimal"

// InvoiceFormat identifies which parsing strategy a page needs.
type InvoiceFormat int

const (
	// FormatUnknown marks pages with no recognizable content.
	FormatUnknown InvoiceFormat = iota

	// FormatLernfoerderung is the tutoring-subsidy invoice: native PDF
	// text with header/detail tables and course lines.
	FormatLernfoerderung

	// FormatBereitschaft is the on-call foster-care invoice: free text
	// with an itemized service section and four page-level totals.
	FormatBereitschaft

	// FormatOCRScan is everything else with text: scanned invoices
	// whose line items are recovered heuristically from OCR output.
	FormatOCRScan
)

// String returns the human-readable format name used in logs.
func (f InvoiceFormat) String() string {
	switch f {
	case FormatLernfoerderung:
		return "lernfoerderung"
	case FormatBereitschaft:
		return "bereitschaftspflege"
	case FormatOCRScan:
		return "ocr-scan"
	default:
		return "unknown"
	}
}

// ReconciliationStatus reports whether a page's line items sum to its
// stated total.
type ReconciliationStatus int

const (
	// ReconUnknown means no page-level total was available to check against.
	ReconUnknown ReconciliationStatus = iota

	// ReconOK means the line-item sum equals the stated total exactly.
	ReconOK

	// ReconMismatch means the sums differ; the signed difference is in
	// the item's ReconMessage.
	ReconMismatch
)

func (s ReconciliationStatus) String() string {
	switch s {
	case ReconOK:
		return "ok"
	case ReconMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// RawPage is one physical page as handed over by the PDF text layer or
// the OCR service. Immutable input to the pipeline.
type RawPage struct {
	// Number is the 1-based page index.
	Number int

	// Text is the extracted page text, possibly empty.
	Text string

	// Tables holds zero or more reconstructed tables: rows of cells.
	Tables [][][]string

	// Confidence is the OCR confidence in [0,100]. Native text-layer
	// pages carry 100.
	Confidence float64
}

// InvoiceMetadata holds the header fields located on a page. Derived
// once per page and never mutated afterwards.
type InvoiceMetadata struct {
	InvoiceNumber string

	// InvoiceSuffix is the part after '/' in the invoice-number token,
	// used as the debtor-number fallback when no customer number was found.
	InvoiceSuffix string

	// InvoiceDate is the raw "DD.MM.YYYY" string as printed.
	InvoiceDate string

	CustomerNumber string

	// RecipientName is composed as "given family" from the separate
	// Vorname and Name fields.
	RecipientName string

	// AccountCode is the cost-bearer code pattern found in the header.
	AccountCode string

	// StudentName and School are Lernförderung-specific header fields.
	StudentName string
	School      string
}

// LineItem is one extracted billable position.
type LineItem struct {
	PageNum int

	InvoiceNumber  string
	InvoiceSuffix  string
	InvoiceDate    string
	CustomerNumber string

	Description string

	// MonthYear is the service-period token ("01/25", "Januar 2025")
	// when the line carries one.
	MonthYear string

	Quantity string
	Rate     string

	Amount      decimal.Decimal
	AmountCents int64

	// CareMode marks itemized Bereitschaftspflege service lines.
	CareMode bool

	// Summary marks the synthetic per-invoice summary row appended
	// after the care-invoice totals.
	Summary bool

	ReconStatus  ReconciliationStatus
	ReconMessage string

	// DifferenceCents is set on every item of a page whose mismatch is
	// within the rounding tolerance. Informational only, never
	// auto-corrected.
	DifferenceCents int64

	// Confidence is the page OCR confidence this item inherited.
	Confidence float64
}

// CareTotals are the four page-level totals of a care invoice. A zero
// value means the total was not printed on the page.
type CareTotals struct {
	NettoCents    int64
	RechnungCents int64
	AbzugCents    int64
	ZahlCents     int64
}

// SummaryCents picks the payment-relevant amount for the synthetic
// summary row: Zahlbetrag, else Rechnungsbetrag, else Nettobetrag.
func (t CareTotals) SummaryCents() int64 {
	if t.ZahlCents != 0 {
		return t.ZahlCents
	}
	if t.RechnungCents != 0 {
		return t.RechnungCents
	}
	return t.NettoCents
}

// Package export assembles extracted line items into the fixed
// 23-column accounting export row and writes the export spreadsheet.
// The column order is bit-exact; reordering breaks the downstream
// accounting import.
package export

import (
	"strings"

	"belegexport/internal/extract"
	"belegexport/internal/money"
	"belegexport/internal/validate"
)

// Config carries the per-run export defaults. Each value fills its
// OutputRow field only when the row has no derived value of its own.
// The extraction core never reads ambient state; everything arrives
// through this struct.
type Config struct {
	Satzart        string
	Firma          string
	SollHaben      string
	BuchKreis      string
	BuchJahr       int
	BuchMonat      int
	HabenKonto     string
	Koststelle     string
	Kosttraeger    string
	KosttraegerBez string
	Bebuchbar      string
	BuchTextPrefix string
}

// Documented per-field defaults, applied when neither a derived value
// nor a config value covers the field.
const (
	DefaultSatzart   = "D"
	DefaultBebuchbar = "Ja"
)

// ValidationThreshold is the OCR confidence below which a row is
// flagged for manual review even when all field checks passed.
const ValidationThreshold = 70.0

// Row is one assembled export record. The exported columns live in the
// first block; the trailing fields are review metadata that never
// reaches the spreadsheet.
type Row struct {
	Satzart              string
	Firma                string
	BelegNr              string
	BelegDat             string // YYYYMMDD or empty
	SollHaben            string
	BuchKreis            string
	BuchJahr             int
	BuchMonat            int
	DebiKredi            string
	BetragCents          int64
	Rechnung             string
	Leer                 string
	BuchText             string
	HabenKonto           string
	SollKonto            string
	Leer1                string
	Koststelle           string
	Kosttraeger          string
	KosttraegerBez       string
	Bebuchbar            string
	DebitorenBez         string
	DebitorenAnschrift   string
	AbgBenutzerdefiniert string

	// Review metadata, not exported.
	PageNum            int
	ReconStatus        extract.ReconciliationStatus
	ReconMessage       string
	DifferenceCents    int64
	Confidence         float64
	Validation         []validate.Result
	ValidationRequired bool
}

// Columns returns the 23 export column headers in their fixed order.
func Columns() []string {
	return []string{
		"SATZART",
		"FIRMA",
		"BELEG_NR",
		"BELEG_DAT",
		"SOLL_HABEN",
		"BUCH_KREIS",
		"BUCH_JAHR",
		"BUCH_MONAT",
		"DEBI_KREDI",
		"BETRAG",
		"RECHNUNG",
		"leer",
		"BUCH_TEXT",
		"HABENKONTO",
		"SOLLKONTO",
		"leer_1",
		"KOSTSTELLE",
		"KOSTTRAGER",
		"Kostenträgerbezeichnung",
		"Bebuchbar",
		"Debitoren.Bezeichnung",
		"Debitoren.Aktuelle Anschrift Anschrift-Zusatz",
		"AbgBenutzerdefiniert",
	}
}

// Values returns the row's 23 column values in header order.
func (r Row) Values() []interface{} {
	return []interface{}{
		r.Satzart,
		r.Firma,
		r.BelegNr,
		r.BelegDat,
		r.SollHaben,
		r.BuchKreis,
		r.BuchJahr,
		r.BuchMonat,
		r.DebiKredi,
		r.BetragCents,
		r.Rechnung,
		r.Leer,
		r.BuchText,
		r.HabenKonto,
		r.SollKonto,
		r.Leer1,
		r.Koststelle,
		r.Kosttraeger,
		r.KosttraegerBez,
		r.Bebuchbar,
		r.DebitorenBez,
		r.DebitorenAnschrift,
		r.AbgBenutzerdefiniert,
	}
}

// PadCostCenter prepends the leading zero the reference table drops
// from Kostenträger values.
func PadCostCenter(s string) string {
	if s == "" || strings.HasPrefix(s, "0") {
		return s
	}
	return "0" + s
}

// DeriveKoststelle is the cost-center's first 4 characters, taken from
// the stored (unpadded) value.
func DeriveKoststelle(costCenter string) string {
	runes := []rune(costCenter)
	if len(runes) <= 4 {
		return costCenter
	}
	return string(runes[:4])
}

// Assemble maps one line item plus its page metadata and the run
// configuration into an export row. Pure and idempotent: derived
// values win, config fills gaps, documented defaults come last.
func Assemble(item extract.LineItem, meta extract.InvoiceMetadata, cfg Config) Row {
	row := Row{
		Satzart:        firstNonEmpty(cfg.Satzart, DefaultSatzart),
		Firma:          cfg.Firma,
		BelegNr:        item.InvoiceNumber,
		BelegDat:       money.ToISODate(item.InvoiceDate),
		SollHaben:      cfg.SollHaben,
		BuchKreis:      cfg.BuchKreis,
		DebiKredi:      firstNonEmpty(item.CustomerNumber, item.InvoiceSuffix),
		BetragCents:    item.AmountCents,
		Rechnung:       invoiceReference(item),
		BuchText:       buildBookingText(item, meta, cfg),
		HabenKonto:     cfg.HabenKonto,
		Koststelle:     cfg.Koststelle,
		Kosttraeger:    cfg.Kosttraeger,
		KosttraegerBez: cfg.KosttraegerBez,
		Bebuchbar:      firstNonEmpty(cfg.Bebuchbar, DefaultBebuchbar),

		PageNum:         item.PageNum,
		ReconStatus:     item.ReconStatus,
		ReconMessage:    item.ReconMessage,
		DifferenceCents: item.DifferenceCents,
		Confidence:      item.Confidence,
	}

	if t, ok := money.ParseGermanDate(item.InvoiceDate); ok {
		row.BuchJahr = t.Year()
		row.BuchMonat = int(t.Month())
	} else {
		row.BuchJahr = cfg.BuchJahr
		row.BuchMonat = cfg.BuchMonat
	}

	if row.Koststelle == "" && row.Kosttraeger != "" {
		row.Koststelle = DeriveKoststelle(row.Kosttraeger)
	}

	row.Validation = validate.Fields(row.BelegNr, row.BelegDat, row.DebiKredi,
		money.FormatCents(row.BetragCents), row.BuchText)
	row.ValidationRequired = item.Confidence < ValidationThreshold || !validate.AllValid(row.Validation)

	return row
}

// invoiceReference reconstructs the printed invoice token, suffix
// included, for the RECHNUNG column.
func invoiceReference(item extract.LineItem) string {
	if item.InvoiceNumber == "" {
		return ""
	}
	if item.InvoiceSuffix != "" {
		return item.InvoiceNumber + "/" + item.InvoiceSuffix
	}
	return item.InvoiceNumber
}

// buildBookingText composes BUCH_TEXT. Tutoring rows get the prefix
// plus student, subject, school and service month; everything else is
// the line description plus the recipient name when one was captured.
func buildBookingText(item extract.LineItem, meta extract.InvoiceMetadata, cfg Config) string {
	var parts []string
	if cfg.BuchTextPrefix != "" {
		parts = append(parts, cfg.BuchTextPrefix)
	}

	if meta.StudentName != "" && !item.CareMode {
		parts = append(parts, meta.StudentName)
		if item.Description != "" {
			parts = append(parts, item.Description)
		}
		if meta.School != "" {
			parts = append(parts, meta.School)
		}
		if item.MonthYear != "" {
			parts = append(parts, item.MonthYear)
		}
		return strings.Join(parts, " ")
	}

	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	if meta.RecipientName != "" {
		parts = append(parts, meta.RecipientName)
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

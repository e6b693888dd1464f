package export

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegexport/internal/extract"
)

func testItem() extract.LineItem {
	return extract.LineItem{
		PageNum:        1,
		InvoiceNumber:  "123456789",
		InvoiceDate:    "23.11.2025",
		CustomerNumber: "987654321",
		Description:    "Unterbringung WG",
		Amount:         decimal.NewFromFloat(1234.56),
		AmountCents:    123456,
		ReconStatus:    extract.ReconOK,
		Confidence:     90,
	}
}

func TestColumnsOrder(t *testing.T) {
	expected := []string{
		"SATZART", "FIRMA", "BELEG_NR", "BELEG_DAT", "SOLL_HABEN",
		"BUCH_KREIS", "BUCH_JAHR", "BUCH_MONAT", "DEBI_KREDI", "BETRAG",
		"RECHNUNG", "leer", "BUCH_TEXT", "HABENKONTO", "SOLLKONTO",
		"leer_1", "KOSTSTELLE", "KOSTTRAGER", "Kostenträgerbezeichnung",
		"Bebuchbar", "Debitoren.Bezeichnung",
		"Debitoren.Aktuelle Anschrift Anschrift-Zusatz",
		"AbgBenutzerdefiniert",
	}
	assert.Equal(t, expected, Columns())
}

func TestValuesMatchColumnCount(t *testing.T) {
	row := Assemble(testItem(), extract.InvoiceMetadata{}, Config{})
	assert.Len(t, row.Values(), len(Columns()))
}

func TestAssembleDerivedValuesWin(t *testing.T) {
	cfg := Config{
		Firma:     "9251",
		SollHaben: "S",
		BuchJahr:  2020,
		BuchMonat: 1,
	}

	row := Assemble(testItem(), extract.InvoiceMetadata{}, cfg)

	assert.Equal(t, "123456789", row.BelegNr)
	assert.Equal(t, "20251123", row.BelegDat)
	// Derived from the invoice date, not from config.
	assert.Equal(t, 2025, row.BuchJahr)
	assert.Equal(t, 11, row.BuchMonat)
	assert.Equal(t, "987654321", row.DebiKredi)
	assert.Equal(t, int64(123456), row.BetragCents)
	assert.Equal(t, "9251", row.Firma)
	assert.Equal(t, "S", row.SollHaben)
}

func TestAssembleConfigFillsGaps(t *testing.T) {
	item := testItem()
	item.InvoiceDate = ""

	row := Assemble(item, extract.InvoiceMetadata{}, Config{BuchJahr: 2024, BuchMonat: 6})

	assert.Empty(t, row.BelegDat)
	assert.Equal(t, 2024, row.BuchJahr)
	assert.Equal(t, 6, row.BuchMonat)
}

func TestAssembleDefaults(t *testing.T) {
	row := Assemble(testItem(), extract.InvoiceMetadata{}, Config{})
	assert.Equal(t, "D", row.Satzart)
	assert.Equal(t, "Ja", row.Bebuchbar)
	assert.Empty(t, row.SollKonto)
	assert.Empty(t, row.Leer)
	assert.Empty(t, row.Leer1)

	row = Assemble(testItem(), extract.InvoiceMetadata{}, Config{Satzart: "X", Bebuchbar: "Nein"})
	assert.Equal(t, "X", row.Satzart)
	assert.Equal(t, "Nein", row.Bebuchbar)
}

func TestAssembleIdempotent(t *testing.T) {
	item := testItem()
	meta := extract.InvoiceMetadata{RecipientName: "Max Mustermann"}
	cfg := Config{Firma: "9251"}

	first := Assemble(item, meta, cfg)
	second := Assemble(item, meta, cfg)
	assert.Equal(t, first, second)
}

func TestAssembleSuffixFallbackForDebtor(t *testing.T) {
	item := testItem()
	item.CustomerNumber = ""
	item.InvoiceSuffix = "555666777"

	row := Assemble(item, extract.InvoiceMetadata{}, Config{})
	assert.Equal(t, "555666777", row.DebiKredi)
	assert.Equal(t, "123456789/555666777", row.Rechnung)
}

func TestAssembleKoststelleFromKosttraeger(t *testing.T) {
	row := Assemble(testItem(), extract.InvoiceMetadata{}, Config{Kosttraeger: "190111512110"})
	assert.Equal(t, "1901", row.Koststelle)

	row = Assemble(testItem(), extract.InvoiceMetadata{}, Config{Koststelle: "4711", Kosttraeger: "190111512110"})
	assert.Equal(t, "4711", row.Koststelle)
}

func TestAssembleBookingText(t *testing.T) {
	t.Run("recipient name appended", func(t *testing.T) {
		row := Assemble(testItem(), extract.InvoiceMetadata{RecipientName: "Max Mustermann"}, Config{})
		assert.Equal(t, "Unterbringung WG Max Mustermann", row.BuchText)
	})

	t.Run("tutoring parts with prefix", func(t *testing.T) {
		item := testItem()
		item.Description = "Mathematik"
		item.MonthYear = "01/25"
		meta := extract.InvoiceMetadata{StudentName: "Erika Musterfrau", School: "Grundschule Nord"}

		row := Assemble(item, meta, Config{BuchTextPrefix: "LF"})
		assert.Equal(t, "LF Erika Musterfrau Mathematik Grundschule Nord 01/25", row.BuchText)
	})
}

func TestAssembleValidationFlag(t *testing.T) {
	row := Assemble(testItem(), extract.InvoiceMetadata{RecipientName: "Max Mustermann"}, Config{})
	require.Len(t, row.Validation, 5)
	assert.False(t, row.ValidationRequired)

	lowConfidence := testItem()
	lowConfidence.Confidence = 50
	row = Assemble(lowConfidence, extract.InvoiceMetadata{RecipientName: "Max Mustermann"}, Config{})
	assert.True(t, row.ValidationRequired)

	badNumber := testItem()
	badNumber.InvoiceNumber = "1234"
	row = Assemble(badNumber, extract.InvoiceMetadata{RecipientName: "Max Mustermann"}, Config{})
	assert.True(t, row.ValidationRequired)
}

func TestPadCostCenter(t *testing.T) {
	assert.Equal(t, "0190111512110", PadCostCenter("190111512110"))
	assert.Equal(t, "0190111512110", PadCostCenter("0190111512110"))
	assert.Empty(t, PadCostCenter(""))
}

func TestDeriveKoststelle(t *testing.T) {
	assert.Equal(t, "1901", DeriveKoststelle("190111512110"))
	assert.Equal(t, "190", DeriveKoststelle("190"))
}

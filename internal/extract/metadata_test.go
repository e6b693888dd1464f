package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMetadataFromText(t *testing.T) {
	page := RawPage{
		Number: 1,
		Text: `Stadt Musterstadt
Rg.-Nr. 123456789/987654321
Rechnungsdatum 23.11.2025
Kunden-Nummer 555 123 456
Vorname Max
Name Mustermann Geb.-Datum 01.01.2010
`,
		Confidence: 100,
	}

	meta := ExtractMetadata(page)

	assert.Equal(t, "123456789", meta.InvoiceNumber)
	assert.Equal(t, "987654321", meta.InvoiceSuffix)
	assert.Equal(t, "23.11.2025", meta.InvoiceDate)
	assert.Equal(t, "555123456", meta.CustomerNumber)
	assert.Equal(t, "Max Mustermann", meta.RecipientName)
}

func TestExtractMetadataLabelChain(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"rg nr", "Rg.-Nr. 123456789", "123456789"},
		{"rechnungsnummer", "Rechnungsnummer: 987654321", "987654321"},
		{"rechnung nr", "Rechnung Nr. 111222333", "111222333"},
		{"invoice hash", "Invoice # INV-2025-001", "INV-2025-001"},
		{"no label", "irgendein Text ohne Nummer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := ExtractMetadata(RawPage{Number: 1, Text: tt.text})
			assert.Equal(t, tt.expected, meta.InvoiceNumber)
		})
	}
}

func TestExtractMetadataSkipsDateTokens(t *testing.T) {
	// The date directly after the label must not be mistaken for the
	// invoice number.
	meta := ExtractMetadata(RawPage{
		Number: 1,
		Text:   "Rechnungsnummer 23.11.2025 123456789",
	})
	assert.Equal(t, "123456789", meta.InvoiceNumber)
}

func TestExtractMetadataTableWinsOverText(t *testing.T) {
	page := RawPage{
		Number: 1,
		Text:   "Rechnungsnummer 999999999",
		Tables: [][][]string{
			{
				{"Rechnungsnummer", "123456789"},
				{"Personenkonto", "555666777"},
			},
		},
	}

	meta := ExtractMetadata(page)
	assert.Equal(t, "123456789", meta.InvoiceNumber)
	assert.Equal(t, "555666777", meta.CustomerNumber)
}

func TestExtractMetadataStudentInfo(t *testing.T) {
	page := RawPage{
		Number: 1,
		Text: `Durchführung einer Lernförderung für:
Erika Musterfrau
Grundschule Nord
01/25 Mathematik 8 Zeitstunden á 35,00 €`,
	}

	meta := ExtractMetadata(page)
	assert.Equal(t, "Erika Musterfrau", meta.StudentName)
	assert.Equal(t, "Grundschule Nord", meta.School)
}

func TestExtractMetadataSchoolNotCourseLine(t *testing.T) {
	page := RawPage{
		Number: 1,
		Text: `Durchführung einer Lernförderung für:
Erika Musterfrau
01/25 Mathematik 8 Zeitstunden á 35,00 €`,
	}

	meta := ExtractMetadata(page)
	assert.Equal(t, "Erika Musterfrau", meta.StudentName)
	assert.Empty(t, meta.School)
}

func TestExtractMetadataAccountCode(t *testing.T) {
	meta := ExtractMetadata(RawPage{
		Number: 1,
		Text:   "Kostenstelle 19011/1512 110",
	})
	assert.Equal(t, "19011/1512 110", meta.AccountCode)
}

func TestRecipientNameFallbacks(t *testing.T) {
	assert.Equal(t, "Mustermann", findRecipientName("Name Mustermann"))
	assert.Equal(t, "Max", findRecipientName("Vorname Max"))
	assert.Empty(t, findRecipientName("kein Name hier"))
}

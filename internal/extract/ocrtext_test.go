package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOCRTextAcceptsByAmount(t *testing.T) {
	page := RawPage{
		Number:     1,
		Text:       "Unterkunft und Verpflegung 1.250,00 €",
		Confidence: 85,
	}

	items := ParseOCRText(page, InvoiceMetadata{})

	require.Len(t, items, 1)
	assert.Equal(t, "Unterkunft und Verpflegung", items[0].Description)
	assert.Equal(t, int64(125000), items[0].AmountCents)
	assert.Equal(t, 85.0, items[0].Confidence)
}

func TestParseOCRTextAcceptsByKeyword(t *testing.T) {
	// 9,50 € is below the amount threshold, the keyword carries it.
	page := RawPage{
		Number:     1,
		Text:       "Taschengeld Februar 9,50 €",
		Confidence: 85,
	}

	items := ParseOCRText(page, InvoiceMetadata{})

	require.Len(t, items, 1)
	assert.Equal(t, int64(950), items[0].AmountCents)
}

func TestParseOCRTextAcceptsByQuantity(t *testing.T) {
	page := RawPage{
		Number:     1,
		Text:       "Betreuung 3 Stunden 7,50 €",
		Confidence: 85,
	}

	items := ParseOCRText(page, InvoiceMetadata{})

	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].Quantity)
}

func TestParseOCRTextRejectsNoise(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"small amount without evidence", "Porto 2,50 €"},
		{"numeric-only description", "12.03. 17,50 €"},
		{"short description", "ab 17,50 €"},
		{"totals line", "Gesamtbetrag 1.250,00 €"},
		{"footer line", "IBAN DE00 1234 5678 9012 3456 78 10,00"},
		{"no amount", "Leistungszeitraum Januar 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ParseOCRText(RawPage{Number: 1, Text: tt.line}, InvoiceMetadata{})
			assert.Empty(t, items)
		})
	}
}

func TestParseOCRTextStripsEmbeddedAmounts(t *testing.T) {
	page := RawPage{
		Number:     1,
		Text:       "Unterbringung WG 35,00 € je Monat 1.085,00 €",
		Confidence: 85,
	}

	items := ParseOCRText(page, InvoiceMetadata{})

	require.Len(t, items, 1)
	assert.Equal(t, int64(108500), items[0].AmountCents)
	assert.NotContains(t, items[0].Description, "35,00")
}

func TestParseOCRTextReconciliation(t *testing.T) {
	page := RawPage{
		Number: 1,
		Text: `Unterbringung Heim Januar 1.000,00 €
Bekleidungsgeld 85,00 €
Rechnungsbetrag 1.085,00 €`,
		Confidence: 85,
	}

	items := ParseOCRText(page, InvoiceMetadata{})

	require.Len(t, items, 2)
	assert.Equal(t, ReconOK, items[0].ReconStatus)
	assert.Equal(t, ReconOK, items[1].ReconStatus)
}

func TestFindStatedTotal(t *testing.T) {
	t.Run("keyword chain order", func(t *testing.T) {
		text := `Summe 100,00
Rechnungsbetrag 200,00`
		assert.Equal(t, int64(20000), FindStatedTotal(text))
	})

	t.Run("fallback largest currency amount", func(t *testing.T) {
		text := `Position eins 100,00 €
Position zwei 250,00 €`
		assert.Equal(t, int64(25000), FindStatedTotal(text))
	})

	t.Run("nothing found", func(t *testing.T) {
		assert.Equal(t, int64(0), FindStatedTotal("kein Betrag hier"))
	})
}

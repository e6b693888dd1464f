package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		page     RawPage
		expected InvoiceFormat
	}{
		{"lernfoerderung by keyword", RawPage{Text: "Durchführung einer Lernförderung für:"}, FormatLernfoerderung},
		{"lernfoerderung by zeitstunden", RawPage{Text: "8 Zeitstunden á 35,00 €"}, FormatLernfoerderung},
		{"bereitschaft by section", RawPage{Text: "Folgende Leistungen wurden erbracht"}, FormatBereitschaft},
		{"bereitschaft by name", RawPage{Text: "Abrechnung Bereitschaftspflege"}, FormatBereitschaft},
		{"ocr scan catch-all", RawPage{Text: "Irgendeine gescannte Rechnung 123,00 €"}, FormatOCRScan},
		{"empty page", RawPage{Text: "   "}, FormatUnknown},
		{"table only lernfoerderung", RawPage{Tables: [][][]string{{{"Lernförderung", ""}}}}, FormatLernfoerderung},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFormat(tt.page))
		})
	}
}

func TestProcessPagesOrderAndIsolation(t *testing.T) {
	pages := []RawPage{
		{Number: 3, Text: "Unterkunft März 1.000,00 €", Confidence: 90},
		{Number: 1, Text: "Unterkunft Januar 1.000,00 €", Confidence: 90},
		{Number: 2, Text: "   "}, // empty page contributes nothing
	}

	p := NewPipeline(4)
	items := p.ProcessPages(context.Background(), pages)

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].PageNum)
	assert.Equal(t, 3, items[1].PageNum)
}

func TestProcessPagesDetailedReportsErrors(t *testing.T) {
	pages := []RawPage{
		{Number: 1, Text: ""},
		{Number: 2, Text: "Taschengeld 9,50 €", Confidence: 80},
	}

	p := NewPipeline(2)
	results := p.ProcessPagesDetailed(context.Background(), pages)

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Page)
	assert.ErrorIs(t, results[0].Err, ErrEmptyPage)
	assert.Equal(t, 2, results[1].Page)
	assert.NoError(t, results[1].Err)
	assert.Len(t, results[1].Items, 1)
	assert.Equal(t, FormatOCRScan, results[1].Format)
}

func TestProcessPagesSequentialFallback(t *testing.T) {
	p := NewPipeline(0)
	items := p.ProcessPages(context.Background(), []RawPage{
		{Number: 1, Text: "Unterkunft Januar 1.000,00 €", Confidence: 90},
	})
	assert.Len(t, items, 1)
}

func TestProcessPagesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(2)
	items := p.ProcessPages(ctx, []RawPage{
		{Number: 1, Text: "Unterkunft Januar 1.000,00 €", Confidence: 90},
	})
	assert.Empty(t, items)
}

func TestExtractErrorWrapping(t *testing.T) {
	err := WrapExtractError("ParseOCRText", 3, ErrNoLineItems, "leere Seite")
	assert.ErrorIs(t, err, ErrNoLineItems)
	assert.Contains(t, err.Error(), "page 3")

	// Already-wrapped errors pass through unchanged.
	again := WrapExtractError("ProcessPages", 0, err, "")
	assert.Equal(t, err, again)

	assert.NoError(t, WrapExtractError("Op", 1, nil, ""))
}

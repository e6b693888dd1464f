package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGermanAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"thousands and decimal", "1.234,56", 123456},
		{"zero", "0,00", 0},
		{"garbage", "garbage", 0},
		{"empty", "", 0},
		{"plain integer", "500", 50000},
		{"euro suffix", "1.234,56 €", 123456},
		{"eur suffix", "45,00 EUR", 4500},
		{"negative", "-45,00", -4500},
		{"single decimal place", "12,5", 1250},
		{"three decimal places rounds", "1,005", 101},
		{"millions", "1.234.567,89", 123456789},
		{"dots only thousands", "1.234.567", 123456700},
		{"embedded spaces", "1 234,56", 123456},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseGermanAmount(tt.input))
		})
	}
}

func TestToISODate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard", "23.11.2025", "20251123"},
		{"month out of range", "31.13.2025", ""},
		{"impossible calendar date", "31.02.2025", ""},
		{"single digit day and month", "1.2.2025", "20250201"},
		{"two digit year", "23.11.25", "20251123"},
		{"empty", "", ""},
		{"garbage", "not-a-date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToISODate(tt.input))
		})
	}
}

func TestParseGermanDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		parsed, ok := ParseGermanDate("05.03.2024")
		assert.True(t, ok)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, 3, int(parsed.Month()))
		assert.Equal(t, 5, parsed.Day())
	})

	t.Run("invalid date", func(t *testing.T) {
		_, ok := ParseGermanDate("99.99.9999")
		assert.False(t, ok)
	})
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "1234,56", FormatCents(123456))
	assert.Equal(t, "0,00", FormatCents(0))
	assert.Equal(t, "-45,00", FormatCents(-4500))
	assert.Equal(t, "0,05", FormatCents(5))
}

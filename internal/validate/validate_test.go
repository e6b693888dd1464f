package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"123456789", true},    // 9 digits
		{"1234567890", true},   // 10 digits
		{"12345678", false},    // 8 digits, too short
		{"12345678901", false}, // 11 digits, too long
		{"12345678a", false},
		{"", false},
	}
	for _, tt := range tests {
		ok, _ := InvoiceNumber(tt.input)
		assert.Equal(t, tt.valid, ok, "input %q", tt.input)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid date", "20251123", true},
		{"year too low", "19991123", false},
		{"year too high", "21001123", false},
		{"month zero", "20250023", false},
		{"month 13", "20251323", false},
		{"day zero", "20251100", false},
		{"day 32", "20251132", false},
		{"too short", "2025112", false},
		{"letters", "2025112a", false},
		// Lenient by contract: no month-length cross-check.
		{"feb 31 passes", "20250231", true},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := Date(tt.input)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestDebtorNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"123456789", true},     // 9
		{"12345678901", true},   // 11
		{"12345678", false},     // 8
		{"123456789012", false}, // 12
		{"", false},
	}
	for _, tt := range tests {
		ok, _ := DebtorNumber(tt.input)
		assert.Equal(t, tt.valid, ok, "input %q", tt.input)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"1234", true},
		{"1234,56", true},
		{"1234.56", true},
		{"1234,5", true},
		{"1234,567", false},
		{"12a4", false},
		{"", false},
	}
	for _, tt := range tests {
		ok, _ := Amount(tt.input)
		assert.Equal(t, tt.valid, ok, "input %q", tt.input)
	}
}

func TestBookingText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"structured prefix", "1234 AB CD Nachhilfe", true},
		{"structured prefix only", "1234 AB CD", true},
		{"long free text", "Bereitschaftspflege Januar", true},
		{"short free text", "kurz", false},
		{"exactly ten chars", "abcdefghij", true},
		{"nine chars", "abcdefghi", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := BookingText(tt.input)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestFieldConfidence(t *testing.T) {
	assert.Equal(t, 90.0, FieldConfidence(70, true))
	assert.Equal(t, 40.0, FieldConfidence(70, false))
	assert.Equal(t, 100.0, FieldConfidence(95, true))
	assert.Equal(t, 0.0, FieldConfidence(10, false))
}

func TestFields(t *testing.T) {
	results := Fields("123456789", "20251123", "123456789", "1234,56", "1234 AB CD Test")
	assert.Len(t, results, 5)
	assert.True(t, AllValid(results))

	results = Fields("", "20251123", "123456789", "1234,56", "1234 AB CD Test")
	assert.False(t, AllValid(results))
	assert.Equal(t, "BELEG_NR", results[0].Field)
	assert.False(t, results[0].Valid)
	assert.NotEmpty(t, results[0].Message)
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
		ok    bool
	}{
		{"comma decimal", "45,30", "45.3", true},
		{"dot decimal", "45.30", "45.3", true},
		{"space thousands comma decimal", "1 234,56", "1234.56", true},
		{"dot thousands comma decimal", "1.234,56", "1234.56", true},
		{"comma thousands dot decimal", "1,234.56", "1234.56", true},
		{"repeated comma thousands", "1,234,567", "1234567", true},
		{"currency suffix", "45,30 €", "45.3", true},
		{"currency word", "45,30 EUR", "45.3", true},
		{"negative", "-12,5", "-12.5", true},
		{"integer", "150", "150", true},
		{"empty", "", "0", false},
		{"whitespace only", "   ", "0", false},
		{"letters only", "nėra", "0", false},
		{"lone dash", "-", "0", false},
		{"garbage separators", "1,2,3", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmountNeverNegativeZeroConfusion(t *testing.T) {
	d, ok := ParseAmount("0,00")
	assert.True(t, ok)
	assert.True(t, d.IsZero())
}

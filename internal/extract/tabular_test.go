package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromRowsHeaderAndData(t *testing.T) {
	rows := [][]string{
		{"Sąskaitos Nr.", "Suma", "Butas"},
		{"A-1", "150,00", "12"},
	}
	slips := ExtractFromRows(rows)
	require.Len(t, slips, 1)
	assert.Equal(t, "A-1", slips[0].InvoiceNumber)
	assert.Equal(t, "150", slips[0].TotalDue.String())
	assert.Equal(t, "12", slips[0].ApartmentNumber)
}

func TestExtractFromRowsHeaderNotFirstRow(t *testing.T) {
	rows := [][]string{
		{"UAB Administratorius"},
		{""},
		{"Butas", "Vardas Pavardė", "Mokėtojo kodas", "Mokėtina suma", "Terminas"},
		{"3", "Jonas Jonaitis", "55501", "12,50", "2024-02-15"},
		{"", "", "", "12,50", ""}, // totals row: no apartment, no buyer
	}
	slips := ExtractFromRows(rows)
	require.Len(t, slips, 1)

	slip := slips[0]
	assert.Equal(t, "03", slip.ApartmentNumber)
	assert.Equal(t, "Jonas Jonaitis", slip.BuyerName)
	require.NotNil(t, slip.PaymentCode)
	assert.Equal(t, "55501", *slip.PaymentCode)
	assert.Equal(t, "12.5", slip.TotalDue.String())
	require.NotNil(t, slip.DueDate)
	assert.Equal(t, "2024-02-15", slip.DueDate.Format("2006-01-02"))
}

func TestExtractFromRowsNoHeader(t *testing.T) {
	rows := [][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
	}
	assert.Nil(t, ExtractFromRows(rows))
}

func TestExtractFromRowsShortRowDefaults(t *testing.T) {
	rows := [][]string{
		{"Butas", "Pirkėjas", "Suma"},
		{"08", "Ona Onaitė"}, // amount column missing entirely
	}
	slips := ExtractFromRows(rows)
	require.Len(t, slips, 1)
	assert.True(t, slips[0].TotalDue.IsZero())
	assert.NotEmpty(t, slips[0].FieldQuality)
}

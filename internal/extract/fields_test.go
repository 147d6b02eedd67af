package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChunk = `Serija: SF Nr. 12345
Sąskaitos data: 2024 m. sausio 15 d.
Apmokėti iki: 2024-02-15
Pirkėjas: Jonas Jonaitis
Obj.adresas:
V.Mykolaičio-Putino g. 10-07
Prašome nurodyti mokėtojo kodą: 98765
Likutis laikotarpio pradžioje: 12,00
Gauta įmokų: 12,00
Priskaičiuota: 45,30
MOKĖTINA SUMA, €: 45,30`

func TestParseStatementChunkSample(t *testing.T) {
	slip := ParseStatementChunk(sampleChunk)
	require.NotNil(t, slip)

	assert.Equal(t, "SF-12345", slip.InvoiceNumber)
	assert.Equal(t, "07", slip.ApartmentNumber)
	require.NotNil(t, slip.PaymentCode)
	assert.Equal(t, "98765", *slip.PaymentCode)
	assert.Equal(t, "45.3", slip.TotalDue.String())
	assert.Equal(t, "Jonas Jonaitis", slip.BuyerName)
	require.NotNil(t, slip.InvoiceDate)
	assert.Equal(t, "2024-01-15", slip.InvoiceDate.Format("2006-01-02"))
	require.NotNil(t, slip.DueDate)
	assert.Equal(t, "2024-02-15", slip.DueDate.Format("2006-01-02"))
	assert.Equal(t, "2024-01", slip.PeriodMonth)
	assert.True(t, slip.BalanceConsistent)
}

func TestParseStatementChunkMandatoryFields(t *testing.T) {
	t.Run("missing invoice number", func(t *testing.T) {
		assert.Nil(t, ParseStatementChunk("Obj.adresas: Taikos g. 5-12\nMOKĖTINA SUMA, €: 10,00"))
	})
	t.Run("missing apartment number", func(t *testing.T) {
		assert.Nil(t, ParseStatementChunk("Serija: SF Nr. 1\nMOKĖTINA SUMA, €: 10,00"))
	})
}

func TestParseStatementChunkDegradedAmounts(t *testing.T) {
	slip := ParseStatementChunk("Serija: SF Nr. 77\nObj.adresas: Taikos g. 5-12\n")
	require.NotNil(t, slip)
	assert.True(t, slip.TotalDue.IsZero())

	fields := make(map[string]bool)
	for _, q := range slip.FieldQuality {
		fields[q.Field] = true
	}
	assert.True(t, fields["total_due"], "degraded total_due must be flagged")
	assert.True(t, fields["previous_amount"])
}

func TestParseStatementChunkApartmentZeroPadding(t *testing.T) {
	slip := ParseStatementChunk("Serija: SF Nr. 2\nObj.adresas: Taikos g. 5-7\nMOKĖTINA SUMA, €: 1,00")
	require.NotNil(t, slip)
	assert.Equal(t, "07", slip.ApartmentNumber)
}

func TestParseStatementChunkLineItems(t *testing.T) {
	chunk := `Serija: SF Nr. 9
Obj.adresas: Taikos g. 5-01
Kodas  Pavadinimas  Vnt.  Kiekis  Tarifas  Suma
101  Šaltas vanduo  m3  2,50  1,20  3,00
102  Šiukšlių išvežimas  but.  1,00  4,10  4,10
trumpa eilutė
Iš viso: 7,10
MOKĖTINA SUMA, €: 7,10`

	slip := ParseStatementChunk(chunk)
	require.NotNil(t, slip)
	require.Len(t, slip.LineItems, 2)
	assert.Equal(t, "101", slip.LineItems[0].Code)
	assert.Equal(t, "Šaltas vanduo", slip.LineItems[0].Name)
	assert.Equal(t, "m3", slip.LineItems[0].Unit)
	assert.Equal(t, "3", slip.LineItems[0].Amount.String())
	assert.Equal(t, "4.1", slip.LineItems[1].Amount.String())
}

func TestParseStatementChunkMetersOptional(t *testing.T) {
	withMeters := `Serija: SF Nr. 5
Obj.adresas: Taikos g. 5-03
Karštas vanduo: 14,20
Šalto vandens skaitiklis Nr.: SV-110042
Dieninė el. energija: 230,10
Naktinė el. energija: 120,00
MOKĖTINA SUMA, €: 20,00`

	slip := ParseStatementChunk(withMeters)
	require.NotNil(t, slip)
	require.NotNil(t, slip.Meters)
	require.NotNil(t, slip.Meters.HotWater)
	assert.Equal(t, "14.2", slip.Meters.HotWater.String())
	require.NotNil(t, slip.Meters.ColdWaterMeterID)
	assert.Equal(t, "SV-110042", *slip.Meters.ColdWaterMeterID)
	require.NotNil(t, slip.Meters.ElectricityDay)
	require.NotNil(t, slip.Meters.ElectricityNight)

	noMeters := ParseStatementChunk("Serija: SF Nr. 6\nObj.adresas: Taikos g. 5-04\nMOKĖTINA SUMA, €: 1,00")
	require.NotNil(t, noMeters)
	assert.Nil(t, noMeters.Meters)
}

package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"slips":[]}`, `{"slips":[]}`},
		{"code fence", "```json\n{\"slips\":[]}\n```", `{"slips":[]}`},
		{"prose around", "Here you go: {\"slips\":[]} hope it helps", `{"slips":[]}`},
		{"no object", "sorry, cannot parse this", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSONObject(tt.content)
			if tt.want == "" {
				assert.Nil(t, got)
			} else {
				assert.Equal(t, tt.want, string(got))
			}
		})
	}
}

func TestNormalizeSlipBatch(t *testing.T) {
	raw := []byte(`{
		"slips": [
			{
				"invoice_number": "SF-1",
				"apartment_number": "07",
				"total_due": 45.3,
				"previous_amount": null,
				"balance": "12,50",
				"made_up_key": "x",
				"buyer_name": "  Jonas Jonaitis  "
			},
			{"buyer_name": "be numerio"}
		]
	}`)

	cleaned, dropped, err := NormalizeSlipBatch(raw, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, dropped)

	var out struct {
		Slips []SlipFields `json:"slips"`
	}
	require.NoError(t, json.Unmarshal(cleaned, &out))
	require.Len(t, out.Slips, 1, "entry without mandatory fields is dropped")

	slip := out.Slips[0]
	assert.Equal(t, "SF-1", slip.InvoiceNumber)
	assert.Equal(t, "45.30", slip.TotalDue)
	assert.Equal(t, "12.50", slip.Balance, "comma decimal coerced")
	assert.Empty(t, slip.PreviousAmount, "null money field dropped")
	assert.Equal(t, "Jonas Jonaitis", slip.BuyerName, "strings trimmed")

	// the cleaned document must satisfy the strict schema
	require.NoError(t, ValidateJSONAgainstSchema(BuildSlipBatchJSONSchema(), cleaned))
}

func TestNormalizeSlipBatchMalformed(t *testing.T) {
	_, _, err := NormalizeSlipBatch([]byte(`{"answer": 42}`), nil)
	assert.Error(t, err)

	_, _, err = NormalizeSlipBatch([]byte(`not json`), nil)
	assert.Error(t, err)
}

func TestValidateJSONAgainstSchemaRejectsBadShape(t *testing.T) {
	schema := BuildSlipBatchJSONSchema()
	err := ValidateJSONAgainstSchema(schema, []byte(`{"slips":[{"invoice_number":"","apartment_number":"07","total_due":"1.00"}]}`))
	assert.Error(t, err, "empty invoice_number violates minLength")

	err = ValidateJSONAgainstSchema(schema, []byte(`{"slips":[{"invoice_number":"A","apartment_number":"07","total_due":"1.00"}]}`))
	assert.NoError(t, err)
}

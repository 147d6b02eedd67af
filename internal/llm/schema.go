package llm

// BuildSlipBatchJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map for the pluralized slip shape. It is passed to the model as a
// structured-output constraint and used locally to validate the response.
func BuildSlipBatchJSONSchema() map[string]any {
	slip := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_number":    map[string]any{"type": "string", "minLength": 1},
			"invoice_date":      datePropYMD(),
			"due_date":          datePropYMD(),
			"period_month":      map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}$`},
			"buyer_name":        map[string]any{"type": "string"},
			"address":           map[string]any{"type": "string"},
			"apartment_number":  map[string]any{"type": "string", "minLength": 1},
			"payment_code":      map[string]any{"type": "string"},
			"previous_amount":   decimalProp(),
			"payments_received": decimalProp(),
			"balance":           decimalProp(),
			"accrued_amount":    decimalProp(),
			"total_due":         decimalProp(),
			"confidence":        map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"invoice_number", "apartment_number", "total_due"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"slips": map[string]any{"type": "array", "items": slip},
		},
		"required": []string{"slips"},
	}
}

// BuildInvoiceJSONSchema returns the schema for one vendor invoice analysis.
func BuildInvoiceJSONSchema(allowedCategories []string) map[string]any {
	props := map[string]any{
		"vendor_name":         map[string]any{"type": "string", "minLength": 1},
		"vendor_company_code": map[string]any{"type": "string"},
		"vendor_vat_code":     map[string]any{"type": "string"},
		"invoice_number":      map[string]any{"type": "string"},
		"invoice_date":        datePropYMD(),
		"due_date":            datePropYMD(),
		"subtotal":            decimalProp(),
		"vat_amount":          decimalProp(),
		"total_amount":        decimalProp(),
		"description":         map[string]any{"type": "string"},
		"suggested_category":  map[string]any{"type": "string"},
		"confidence":          map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}
	if len(allowedCategories) > 0 {
		props["suggested_category"] = map[string]any{
			"type": "string",
			"enum": allowedCategories,
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"vendor_name"},
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d{1,2})?$`, // signed: credits are negative
	}
}

func datePropYMD() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
}

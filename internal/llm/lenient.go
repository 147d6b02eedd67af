package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// slipKeys is the allowed key set for one slip object; everything else the
// model invents is removed before validation (additionalProperties=false
// friendliness).
var slipKeys = map[string]struct{}{
	"invoice_number": {}, "invoice_date": {}, "due_date": {}, "period_month": {},
	"buyer_name": {}, "address": {}, "apartment_number": {}, "payment_code": {},
	"previous_amount": {}, "payments_received": {}, "balance": {},
	"accrued_amount": {}, "total_due": {}, "confidence": {},
}

var slipMoneyKeys = []string{
	"previous_amount", "payments_received", "balance", "accrued_amount", "total_due",
}

var invoiceKeys = map[string]struct{}{
	"vendor_name": {}, "vendor_company_code": {}, "vendor_vat_code": {},
	"invoice_number": {}, "invoice_date": {}, "due_date": {},
	"subtotal": {}, "vat_amount": {}, "total_amount": {},
	"description": {}, "suggested_category": {}, "confidence": {},
}

var invoiceMoneyKeys = []string{"subtotal", "vat_amount", "total_amount"}

// ExtractJSONObject pulls the first top-level JSON object out of a model
// response that may carry prose or code fences around it. Returns nil when
// no object can be found.
func ExtractJSONObject(content string) []byte {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil
	}
	return []byte(content[start : end+1])
}

// NormalizeSlipBatch cleans a raw slip-batch object:
//   - drops null and empty optionals
//   - coerces numeric money values to two-decimal strings
//   - removes unknown keys
//   - drops slip entries missing the mandatory fields entirely
func NormalizeSlipBatch(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}

	items, ok := m["slips"].([]any)
	if !ok {
		return nil, nil, fmt.Errorf("normalize: missing slips array")
	}

	var dropped []string
	cleaned := make([]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("slips[%d](type)", i))
			continue
		}
		d := normalizeObject(obj, slipKeys, slipMoneyKeys)
		for _, k := range d {
			dropped = append(dropped, fmt.Sprintf("slips[%d].%s", i, k))
		}
		if asString(obj["invoice_number"]) == "" || asString(obj["apartment_number"]) == "" {
			dropped = append(dropped, fmt.Sprintf("slips[%d](mandatory)", i))
			continue
		}
		if _, ok := obj["total_due"]; !ok {
			obj["total_due"] = "0.00"
		}
		cleaned = append(cleaned, obj)
	}

	out, err := json.Marshal(map[string]any{"slips": cleaned})
	if err != nil {
		return nil, dropped, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalized", "dropped", dropped)
	}
	return out, dropped, nil
}

// NormalizeInvoice cleans a raw invoice-analysis object the same way.
func NormalizeInvoice(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}
	dropped := normalizeObject(m, invoiceKeys, invoiceMoneyKeys)
	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.invoice.normalized", "dropped", dropped)
	}
	return out, dropped, nil
}

func normalizeObject(m map[string]any, allowed map[string]struct{}, moneyKeys []string) []string {
	var dropped []string

	for _, k := range moneyKeys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			m[k] = fmt.Sprintf("%.2f", t)
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
				continue
			}
			// tolerate comma decimal markers slipping through
			if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
				s = strings.ReplaceAll(s, ",", ".")
			}
			m[k] = s
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		default:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		}
	}

	for k, v := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		if s, ok := v.(string); ok {
			trimmed := strings.TrimSpace(s)
			if trimmed == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else if trimmed != s {
				m[k] = trimmed
			}
		} else if v == nil {
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		}
	}
	return dropped
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

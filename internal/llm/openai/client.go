package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkazlauskas/bendrija-ingest/constants"
	"github.com/dkazlauskas/bendrija-ingest/internal/llm"
)

// maxPromptChars bounds how much statement text is sent to the model.
const maxPromptChars = 12000

// ExtractSlips implements llm.SlipExtractor using text-only chat/completions.
// The fallback is a safety net, never the primary path: a malformed or
// schema-violating response degrades to an empty slip list, and a deadline
// expiry is reported as context.DeadlineExceeded for the caller to absorb.
func (c *Client) ExtractSlips(ctx context.Context, req llm.SlipExtractRequest) ([]llm.SlipFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.Text),
		"period", req.PeriodMonth,
	)

	schema := llm.BuildSlipBatchJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": slipSystemPrompt(req.PeriodMonth)},
			{"role": "user", "content": slipUserPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	raw, httpErr := c.post(ctx, "/chat/completions", body)
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, httpErr
	}

	content, err := chatContent(raw)
	if err != nil {
		c.logger.Warn("llm.extract.decode_error", "req_id", rid, "error", err)
		return nil, raw, nil
	}

	doc := llm.ExtractJSONObject(content)
	if doc == nil {
		c.logger.Warn("llm.extract.no_json_object", "req_id", rid)
		return nil, raw, nil
	}

	cleaned, _, err := llm.NormalizeSlipBatch(doc, c.logger)
	if err != nil {
		c.logger.Warn("llm.extract.normalize_failed", "req_id", rid, "error", err)
		return nil, doc, nil
	}
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.logger.Warn("llm.extract.schema_validation_failed", "req_id", rid, "error", err)
		return nil, cleaned, nil
	}

	var out struct {
		Slips []llm.SlipFields `json:"slips"`
	}
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.logger.Warn("llm.extract.unmarshal_failed", "req_id", rid, "error", err)
		return nil, cleaned, nil
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"slips", len(out.Slips),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.Slips, cleaned, nil
}

// AnalyzeInvoice implements llm.InvoiceAnalyzer. Vision-capable formats are
// sent inline as a data URL; everything else goes text-only with the
// filename as the sole hint.
func (c *Client) AnalyzeInvoice(ctx context.Context, req llm.InvoiceExtractRequest) (llm.InvoiceFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.invoice.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"file", req.FileName,
		"file_type", req.FileType,
		"has_content", req.FileBase64 != "",
	)

	schema := llm.BuildInvoiceJSONSchema(req.AllowedCategories)

	userContent := invoiceUserContent(req)
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": invoiceSystemPrompt(req.AllowedCategories)},
			{"role": "user", "content": userContent},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	raw, httpErr := c.post(ctx, "/chat/completions", body)
	if httpErr != nil {
		c.logger.Error("llm.invoice.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, nil, httpErr
	}

	content, err := chatContent(raw)
	if err != nil {
		c.logger.Warn("llm.invoice.decode_error", "req_id", rid, "error", err)
		return llm.InvoiceFields{}, raw, nil
	}
	doc := llm.ExtractJSONObject(content)
	if doc == nil {
		c.logger.Warn("llm.invoice.no_json_object", "req_id", rid)
		return llm.InvoiceFields{}, raw, nil
	}
	cleaned, _, err := llm.NormalizeInvoice(doc, c.logger)
	if err != nil {
		c.logger.Warn("llm.invoice.normalize_failed", "req_id", rid, "error", err)
		return llm.InvoiceFields{}, doc, nil
	}
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.logger.Warn("llm.invoice.schema_validation_failed", "req_id", rid, "error", err)
		return llm.InvoiceFields{}, cleaned, nil
	}

	var out llm.InvoiceFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.logger.Warn("llm.invoice.unmarshal_failed", "req_id", rid, "error", err)
		return llm.InvoiceFields{}, cleaned, nil
	}

	c.logger.Info("llm.invoice.ok",
		"req_id", rid,
		"vendor", out.VendorName,
		"total", out.TotalAmount,
		"confidence", out.ModelConfidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, llm.MapUpstreamStatus(resp.StatusCode, raw)
	}
	return raw, nil
}

// chatContent pulls the first choice's message content out of a
// chat/completions response.
func chatContent(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func slipSystemPrompt(period string) string {
	parts := []string{
		"You are a billing-statement parser for a Lithuanian residents association.",
		"The input is extracted text of a combined document with one statement per resident.",
		"Return ONLY JSON matching the provided schema, with one entry per resident under 'slips'.",
		"Use ISO-8601 dates (YYYY-MM-DD). Money values are decimal strings with a dot decimal marker.",
		"apartment_number is the unit part of the address (e.g. '7' from 'Taikos g. 5-7'), zero-padded to two digits.",
		"Never output null. If a field is not present, omit it.",
	}
	if period != "" {
		parts = append(parts, "If the billing period is ambiguous, prefer "+period+".")
	}
	return strings.Join(parts, " ")
}

func slipUserPrompt(req llm.SlipExtractRequest) string {
	var b strings.Builder
	b.WriteString("Filename: ")
	b.WriteString(req.FileNameHint)
	b.WriteString("\n\nDocument text (truncated):\n")
	text := req.Text
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	b.WriteString(text)
	return b.String()
}

func invoiceSystemPrompt(categories []string) string {
	parts := []string{
		"You are a vendor-invoice analyzer for a residents-association bookkeeping system.",
		"Return ONLY JSON that matches the JSON Schema provided.",
		"Use ISO-8601 dates (YYYY-MM-DD). Money values are decimal strings.",
		"vendor_company_code and vendor_vat_code are Lithuanian registry codes when visible.",
	}
	if len(categories) > 0 {
		parts = append(parts, "suggested_category must be one of: "+strings.Join(categories, ", ")+".")
	}
	parts = append(parts, "Set 'confidence' to your certainty in [0,1]. Never output null; omit unknown fields.")
	return strings.Join(parts, " ")
}

// invoiceUserContent builds either plain text or multimodal content parts.
func invoiceUserContent(req llm.InvoiceExtractRequest) any {
	prompt := "Invoice file name: " + req.FileName
	if req.FileBase64 != "" && constants.IsVisionType(req.FileType) {
		mime := "image/" + constants.NormalizeExt(req.FileType)
		if mime == "image/jpg" {
			mime = "image/jpeg"
		}
		return []map[string]any{
			{"type": "text", "text": prompt},
			{"type": "image_url", "image_url": map[string]any{
				"url": "data:" + mime + ";base64," + req.FileBase64,
			}},
		}
	}
	return prompt
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

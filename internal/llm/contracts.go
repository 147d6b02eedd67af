package llm

import "context"

// SlipFields is the normalized shape we want from the model for one
// resident statement. Money fields are decimal strings.
type SlipFields struct {
	InvoiceNumber    string  `json:"invoice_number"`
	InvoiceDate      string  `json:"invoice_date,omitempty"` // YYYY-MM-DD
	DueDate          string  `json:"due_date,omitempty"`     // YYYY-MM-DD
	PeriodMonth      string  `json:"period_month,omitempty"` // YYYY-MM
	BuyerName        string  `json:"buyer_name,omitempty"`
	Address          string  `json:"address,omitempty"`
	ApartmentNumber  string  `json:"apartment_number"`
	PaymentCode      string  `json:"payment_code,omitempty"`
	PreviousAmount   string  `json:"previous_amount,omitempty"`
	PaymentsReceived string  `json:"payments_received,omitempty"`
	Balance          string  `json:"balance,omitempty"`
	AccruedAmount    string  `json:"accrued_amount,omitempty"`
	TotalDue         string  `json:"total_due"`
	ModelConfidence  float32 `json:"confidence,omitempty"` // 0..1
}

// InvoiceFields is the normalized shape we want for one vendor invoice.
type InvoiceFields struct {
	VendorName        string  `json:"vendor_name"`
	VendorCompanyCode string  `json:"vendor_company_code,omitempty"`
	VendorVATCode     string  `json:"vendor_vat_code,omitempty"`
	InvoiceNumber     string  `json:"invoice_number,omitempty"`
	InvoiceDate       string  `json:"invoice_date,omitempty"`
	DueDate           string  `json:"due_date,omitempty"`
	Subtotal          string  `json:"subtotal,omitempty"`
	VATAmount         string  `json:"vat_amount,omitempty"`
	TotalAmount       string  `json:"total_amount,omitempty"`
	Description       string  `json:"description,omitempty"`
	SuggestedCategory string  `json:"suggested_category,omitempty"`
	ModelConfidence   float32 `json:"confidence,omitempty"`
}

// SlipExtractRequest carries the raw statement text to the fallback.
type SlipExtractRequest struct {
	Text         string
	FileNameHint string
	PeriodMonth  string
}

// InvoiceExtractRequest carries one vendor invoice to the analyzer.
type InvoiceExtractRequest struct {
	FileName          string
	FileType          string
	FileBase64        string // optional, for vision-capable formats
	AllowedCategories []string
}

// SlipExtractor is the generative fallback the ingestion pipeline depends
// on. It is invoked only when deterministic extraction yields nothing for a
// non-empty input; a malformed or unusable model response degrades to an
// empty list, never an extraction error.
type SlipExtractor interface {
	ExtractSlips(ctx context.Context, req SlipExtractRequest) ([]SlipFields, []byte /*rawJSON*/, error)
}

// InvoiceAnalyzer extracts facts from one vendor invoice document.
type InvoiceAnalyzer interface {
	AnalyzeInvoice(ctx context.Context, req InvoiceExtractRequest) (InvoiceFields, []byte, error)
}

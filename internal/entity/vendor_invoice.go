package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PatternRef points at the recognition pattern that produced a suggestion.
type PatternRef struct {
	VendorID   uuid.UUID `json:"vendor_id"`
	CategoryID uuid.UUID `json:"category_id"`
}

// VendorInvoiceAnalysis carries extracted and suggested facts about one
// vendor invoice. It is always returned best-effort; callers check
// Confidence and IsRecurring instead of relying on an error channel.
type VendorInvoiceAnalysis struct {
	VendorName          string           `json:"vendor_name"`
	VendorCompanyCode   *string          `json:"vendor_company_code,omitempty"`
	VendorVATCode       *string          `json:"vendor_vat_code,omitempty"`
	VendorCategory      *string          `json:"vendor_category,omitempty"`
	SuggestedVendorID   *uuid.UUID       `json:"suggested_vendor_id,omitempty"`
	InvoiceNumber       string           `json:"invoice_number"`
	InvoiceDate         *time.Time       `json:"invoice_date,omitempty"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
	Subtotal            decimal.Decimal  `json:"subtotal"`
	VATAmount           decimal.Decimal  `json:"vat_amount"`
	TotalAmount         decimal.Decimal  `json:"total_amount"`
	Description         string           `json:"description"`
	SuggestedCategoryID *uuid.UUID       `json:"suggested_category_id,omitempty"`
	Confidence          float64          `json:"confidence"` // 0..1
	IsRecurring         bool             `json:"is_recurring"`
	PatternMatch        *PatternRef      `json:"pattern_match,omitempty"`
}

// RecognitionPattern is a learned vendor-name association shared across
// ingestion runs. Created on first confirmed recognition of a new vendor,
// its counter grows on every subsequent match; the pipeline never deletes it.
type RecognitionPattern struct {
	ID               uuid.UUID  `json:"id"`
	VendorName       string     `json:"vendor_name"`
	SignificantToken string     `json:"significant_token"`
	VendorID         uuid.UUID  `json:"vendor_id"`
	CategoryID       uuid.UUID  `json:"category_id"`
	RecognitionCount int        `json:"recognition_count"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty"`
}

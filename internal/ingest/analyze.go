package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkazlauskas/bendrija-ingest/internal/common"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
	"github.com/dkazlauskas/bendrija-ingest/internal/extract"
	"github.com/dkazlauskas/bendrija-ingest/internal/llm"
)

// AnalyzeVendorInvoice extracts facts from one vendor invoice and enriches
// them with learned-pattern and vendor-list suggestions. The generative step
// is best effort: any model failure degrades to recognition over the file
// name alone, never to an error for the caller.
func (s *Service) AnalyzeVendorInvoice(ctx context.Context, req AnalyzeRequest) (*entity.VendorInvoiceAnalysis, error) {
	vendors := req.Vendors
	if len(vendors) == 0 && s.vendors != nil {
		var err error
		if vendors, err = s.vendors.ListVendors(ctx); err != nil {
			return nil, common.WrapError(err, "load vendor list")
		}
	}
	categories := req.Categories
	if len(categories) == 0 && s.vendors != nil {
		var err error
		if categories, err = s.vendors.ListCategories(ctx); err != nil {
			return nil, common.WrapError(err, "load category list")
		}
	}

	var fields llm.InvoiceFields
	if s.invoices != nil {
		names := make([]string, len(categories))
		for i, c := range categories {
			names[i] = c.Name
		}
		llmCtx, cancel := context.WithTimeout(ctx, s.fallbackTimeout)
		extracted, _, err := s.invoices.AnalyzeInvoice(llmCtx, llm.InvoiceExtractRequest{
			FileName:          req.FileName,
			FileType:          req.FileType,
			FileBase64:        req.FileBase64,
			AllowedCategories: names,
		})
		cancel()
		if err != nil {
			s.logger.Warn("analyze.llm_failed", "file_name", req.FileName, "error", err)
		} else {
			fields = extracted
		}
	}

	analysis := analysisFromFields(fields)

	candidate := fields.VendorName
	if strings.TrimSpace(candidate) == "" {
		candidate = req.FileName
	}
	sug, err := s.recognizer.Recognize(ctx, candidate, vendors)
	if err != nil {
		return nil, common.WrapError(err, "recognize vendor")
	}
	if sug != nil {
		analysis.SuggestedVendorID = sug.VendorID
		analysis.IsRecurring = sug.IsRecurring
		if sug.CategoryID != nil {
			analysis.SuggestedCategoryID = sug.CategoryID
		}
		if sug.Pattern != nil {
			analysis.PatternMatch = &entity.PatternRef{
				VendorID:   sug.Pattern.VendorID,
				CategoryID: sug.Pattern.CategoryID,
			}
			if analysis.VendorName == "" {
				analysis.VendorName = sug.Pattern.VendorName
			}
		}
	}

	if analysis.SuggestedCategoryID == nil && fields.SuggestedCategory != "" {
		if id := categoryIDByName(categories, fields.SuggestedCategory); id != nil {
			analysis.SuggestedCategoryID = id
		}
	}

	s.logger.Info("analyze.done",
		"file_name", req.FileName,
		"vendor_name", analysis.VendorName,
		"is_recurring", analysis.IsRecurring,
		"confidence", analysis.Confidence,
	)
	return analysis, nil
}

// ConfirmPattern records an operator-confirmed vendor+category pairing so the
// recognizer treats the vendor as recurring from now on.
func (s *Service) ConfirmPattern(ctx context.Context, vendorName string, vendorID, categoryID uuid.UUID) (*entity.RecognitionPattern, error) {
	if strings.TrimSpace(vendorName) == "" || vendorID == uuid.Nil || categoryID == uuid.Nil {
		return nil, common.NewAppError("INVALID_INPUT", "vendor_name, vendor_id and category_id are required", common.ErrInvalidInput)
	}
	return s.patterns.UpsertConfirmed(ctx, vendorName, vendorID, categoryID)
}

func analysisFromFields(f llm.InvoiceFields) *entity.VendorInvoiceAnalysis {
	a := &entity.VendorInvoiceAnalysis{
		VendorName:    strings.TrimSpace(f.VendorName),
		InvoiceNumber: strings.TrimSpace(f.InvoiceNumber),
		Description:   strings.TrimSpace(f.Description),
		Confidence:    float64(f.ModelConfidence),
	}
	if v := strings.TrimSpace(f.VendorCompanyCode); v != "" {
		a.VendorCompanyCode = &v
	}
	if v := strings.TrimSpace(f.VendorVATCode); v != "" {
		a.VendorVATCode = &v
	}
	if v := strings.TrimSpace(f.SuggestedCategory); v != "" {
		a.VendorCategory = &v
	}
	if t, err := time.Parse("2006-01-02", f.InvoiceDate); err == nil {
		a.InvoiceDate = &t
	}
	if t, err := time.Parse("2006-01-02", f.DueDate); err == nil {
		a.DueDate = &t
	}
	a.Subtotal = amountOrZero(f.Subtotal)
	a.VATAmount = amountOrZero(f.VATAmount)
	a.TotalAmount = amountOrZero(f.TotalAmount)
	return a
}

func amountOrZero(token string) decimal.Decimal {
	if d, ok := extract.ParseAmount(token); ok {
		return d
	}
	return decimal.Zero
}

func categoryIDByName(categories []*entity.CostCategory, name string) *uuid.UUID {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range categories {
		if strings.ToLower(c.Name) == want || strings.EqualFold(c.Code, name) {
			id := c.ID
			return &id
		}
	}
	return nil
}

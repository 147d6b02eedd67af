package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dkazlauskas/bendrija-ingest/internal/common"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
	"github.com/dkazlauskas/bendrija-ingest/internal/ingest"
)

// IngestService is the pipeline surface the HTTP layer depends on.
type IngestService interface {
	IngestStatements(ctx context.Context, req ingest.IngestRequest) (*ingest.IngestResult, error)
	AnalyzeVendorInvoice(ctx context.Context, req ingest.AnalyzeRequest) (*entity.VendorInvoiceAnalysis, error)
	ConfirmPattern(ctx context.Context, vendorName string, vendorID, categoryID uuid.UUID) (*entity.RecognitionPattern, error)
}

type ingestStatementsBody struct {
	ParsedText      string     `json:"parsed_text"`
	ExcelData       [][]string `json:"excel_data"`
	ExcelFileBase64 string     `json:"excel_file_base64"`
	PeriodMonth     string     `json:"period_month"`
	PDFFileName     string     `json:"pdf_file_name"`
	PDFURL          string     `json:"pdf_url"`
	UseAI           bool       `json:"use_ai"`
}

func (s *Server) handleIngestStatements(c *gin.Context) {
	var body ingestStatementsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.service.IngestStatements(c.Request.Context(), ingest.IngestRequest{
		ParsedText:      body.ParsedText,
		ExcelRows:       body.ExcelData,
		ExcelFileBase64: body.ExcelFileBase64,
		PeriodMonth:     body.PeriodMonth,
		PDFFileName:     body.PDFFileName,
		PDFURL:          body.PDFURL,
		UseAI:           body.UseAI,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type analyzeInvoiceBody struct {
	FileName   string                 `json:"file_name"`
	FileType   string                 `json:"file_type"`
	FileBase64 string                 `json:"file_base64"`
	Vendors    []*entity.Vendor       `json:"vendors"`
	Categories []*entity.CostCategory `json:"categories"`
}

func (s *Server) handleAnalyzeInvoice(c *gin.Context) {
	var body analyzeInvoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.FileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_name is required"})
		return
	}

	analysis, err := s.service.AnalyzeVendorInvoice(c.Request.Context(), ingest.AnalyzeRequest{
		FileName:   body.FileName,
		FileType:   body.FileType,
		FileBase64: body.FileBase64,
		Vendors:    body.Vendors,
		Categories: body.Categories,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type confirmPatternBody struct {
	VendorName string    `json:"vendor_name"`
	VendorID   uuid.UUID `json:"vendor_id"`
	CategoryID uuid.UUID `json:"category_id"`
}

func (s *Server) handleConfirmPattern(c *gin.Context) {
	var body confirmPatternBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pattern, err := s.service.ConfirmPattern(c.Request.Context(), body.VendorName, body.VendorID, body.CategoryID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// renderError maps pipeline failures onto HTTP statuses. Upstream generative
// failures keep their own codes so the portal can show a targeted message.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrMalformedInput), errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrUpstreamRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, common.ErrUpstreamQuota):
		status = http.StatusPaymentRequired
	case errors.Is(err, common.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("http.request_failed", "path", c.FullPath(), "error", err)
	} else {
		s.logger.Warn("http.request_rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Package ingest orchestrates one statement upload end to end: input shape
// resolution, the extraction chain, resident matching and the all-or-nothing
// persist.
package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkazlauskas/bendrija-ingest/constants"
	"github.com/dkazlauskas/bendrija-ingest/internal/common"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
	"github.com/dkazlauskas/bendrija-ingest/internal/extract"
	"github.com/dkazlauskas/bendrija-ingest/internal/llm"
	"github.com/dkazlauskas/bendrija-ingest/internal/match"
	"github.com/dkazlauskas/bendrija-ingest/internal/recognize"
	"github.com/dkazlauskas/bendrija-ingest/internal/repository"
)

// IngestRequest mirrors the upload payload after transport decoding.
// Exactly one of ParsedText, ExcelRows or ExcelFileBase64 is expected.
type IngestRequest struct {
	ParsedText      string
	ExcelRows       [][]string
	ExcelFileBase64 string
	PeriodMonth     string // YYYY-MM
	PDFFileName     string
	PDFURL          string
	UseAI           bool
}

// IngestResult is what the caller shows the operator after a run.
type IngestResult struct {
	BatchID uuid.UUID                  `json:"batch_id"`
	Total   int                        `json:"total"`
	Matched int                        `json:"matched"`
	Pending int                        `json:"pending"`
	Source  constants.ExtractionSource `json:"source,omitempty"`
	Message string                     `json:"message,omitempty"`
}

// AnalyzeRequest carries one vendor invoice to the analyzer. Vendors and
// Categories override the stored reference lists when the caller supplies
// them; otherwise both are loaded from the repositories.
type AnalyzeRequest struct {
	FileName   string
	FileType   string
	FileBase64 string
	Vendors    []*entity.Vendor
	Categories []*entity.CostCategory
}

type Service struct {
	residents  repository.ResidentRepository
	vendors    repository.VendorRepository
	patterns   repository.PatternRepository
	batches    repository.BatchRepository
	slips      llm.SlipExtractor
	invoices   llm.InvoiceAnalyzer
	matcher    *match.Matcher
	recognizer *recognize.Recognizer

	fallbackTimeout time.Duration
	logger          *slog.Logger
}

type ServiceConfig struct {
	Residents repository.ResidentRepository
	Vendors   repository.VendorRepository
	Patterns  repository.PatternRepository
	Batches   repository.BatchRepository
	Slips     llm.SlipExtractor
	Invoices  llm.InvoiceAnalyzer

	// FallbackTimeout bounds the generative fallback; on expiry the run
	// degrades to a zero-slip success instead of failing the upload.
	FallbackTimeout time.Duration
}

func NewService(cfg ServiceConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FallbackTimeout <= 0 {
		cfg.FallbackTimeout = 45 * time.Second
	}
	return &Service{
		residents:       cfg.Residents,
		vendors:         cfg.Vendors,
		patterns:        cfg.Patterns,
		batches:         cfg.Batches,
		slips:           cfg.Slips,
		invoices:        cfg.Invoices,
		matcher:         match.NewMatcher(logger),
		recognizer:      recognize.NewRecognizer(cfg.Patterns, logger),
		fallbackTimeout: cfg.FallbackTimeout,
		logger:          logger,
	}
}

// IngestStatements runs one upload through the pipeline. The batch id is
// minted here so every log line of the run can be correlated.
func (s *Service) IngestStatements(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	batchID := uuid.New()
	logger := s.logger.With("batch_id", batchID)
	start := time.Now()
	logger.Info("ingest.batch.start", "period_month", req.PeriodMonth, "file_name", req.PDFFileName)

	in, err := s.resolveInput(req)
	if err != nil {
		logger.Warn("ingest.batch.rejected", "error", err)
		return nil, err
	}

	chain := []extract.Extractor{
		extract.NewStatementTextExtractor(logger),
		extract.NewTabularRowsExtractor(logger),
	}
	slips, source, err := extract.RunChain(ctx, chain, in)
	if err != nil {
		return nil, err
	}

	if len(slips) == 0 && req.UseAI && s.slips != nil && in.Text != "" {
		slips, err = s.generativeFallback(ctx, logger, in)
		if err != nil {
			return nil, err
		}
		source = constants.SourceGenerative
	}

	result := &IngestResult{BatchID: batchID, Source: source}
	if len(slips) == 0 {
		result.Source = ""
		result.Message = "no slips found in the uploaded document"
		logger.Info("ingest.batch.empty", "elapsed_ms", time.Since(start).Milliseconds())
		return result, nil
	}

	roster, err := s.residents.ListResidents(ctx)
	if err != nil {
		return nil, common.WrapError(err, "load resident roster")
	}

	batch := &entity.UploadBatch{
		ID:          batchID,
		PeriodMonth: req.PeriodMonth,
		CreatedAt:   time.Now().UTC(),
	}
	if req.PDFFileName != "" {
		batch.FileName = &req.PDFFileName
	}
	if req.PDFURL != "" {
		batch.FileURL = &req.PDFURL
	}

	for _, slip := range slips {
		slip.ID = uuid.New()
		slip.BatchID = batchID
		if slip.PeriodMonth == "" {
			slip.PeriodMonth = req.PeriodMonth
		}
		s.matcher.Bind(slip, roster)
		if slip.AssignmentStatus == constants.AssignmentMatched {
			batch.Matched++
		} else {
			batch.Pending++
		}
	}
	batch.Total = len(slips)

	if err := s.batches.CreateWithSlips(ctx, batch, slips); err != nil {
		logger.Error("ingest.batch.persist_failed", "error", err)
		return nil, err
	}

	result.Total = batch.Total
	result.Matched = batch.Matched
	result.Pending = batch.Pending
	logger.Info("ingest.batch.done",
		"total", batch.Total,
		"matched", batch.Matched,
		"pending", batch.Pending,
		"source", string(source),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// resolveInput decodes the tagged-union payload into one extraction input.
func (s *Service) resolveInput(req IngestRequest) (extract.Input, error) {
	in := extract.Input{
		Text:        req.ParsedText,
		Rows:        req.ExcelRows,
		PeriodMonth: req.PeriodMonth,
		FileName:    req.PDFFileName,
	}
	if req.ExcelFileBase64 != "" && len(in.Rows) == 0 {
		raw, err := base64.StdEncoding.DecodeString(req.ExcelFileBase64)
		if err != nil {
			return in, common.NewAppError("MALFORMED_INPUT", "excel_file_base64 is not valid base64", common.ErrMalformedInput)
		}
		rows, err := extract.RowsFromWorkbook(strings.NewReader(string(raw)))
		if err != nil {
			return in, common.NewAppError("MALFORMED_INPUT", "excel file could not be read", common.ErrMalformedInput)
		}
		in.Rows = rows
	}
	if strings.TrimSpace(in.Text) == "" && len(in.Rows) == 0 {
		return in, common.ErrMalformedInput
	}
	return in, nil
}

// generativeFallback asks the model for slips under a bounded deadline. A
// deadline hit or an unusable response degrades to an empty result; only
// upstream transport failures (rate limit, quota, outage) propagate.
func (s *Service) generativeFallback(ctx context.Context, logger *slog.Logger, in extract.Input) ([]*entity.ParsedSlip, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fallbackTimeout)
	defer cancel()

	fields, _, err := s.slips.ExtractSlips(ctx, llm.SlipExtractRequest{
		Text:         in.Text,
		FileNameHint: in.FileName,
		PeriodMonth:  in.PeriodMonth,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("ingest.fallback.timeout", "timeout", s.fallbackTimeout)
			return nil, nil
		}
		return nil, err
	}

	slips := make([]*entity.ParsedSlip, 0, len(fields))
	for _, f := range fields {
		slips = append(slips, fieldsToSlip(f))
	}
	logger.Info("ingest.fallback.done", "slips", len(slips))
	return slips, nil
}

// fieldsToSlip converts one model answer into a slip. Money strings arrive
// normalized from the lenient pass; anything still unparseable defaults to
// zero with a field-quality marker.
func fieldsToSlip(f llm.SlipFields) *entity.ParsedSlip {
	slip := &entity.ParsedSlip{
		InvoiceNumber:   strings.TrimSpace(f.InvoiceNumber),
		PeriodMonth:     f.PeriodMonth,
		BuyerName:       strings.TrimSpace(f.BuyerName),
		Address:         strings.TrimSpace(f.Address),
		ApartmentNumber: extract.NormalizeApartment(f.ApartmentNumber),
		Source:          constants.SourceGenerative,
	}
	if code := strings.TrimSpace(f.PaymentCode); code != "" {
		slip.PaymentCode = &code
	}
	if t, err := time.Parse("2006-01-02", f.InvoiceDate); err == nil {
		slip.InvoiceDate = &t
	}
	if t, err := time.Parse("2006-01-02", f.DueDate); err == nil {
		slip.DueDate = &t
	}

	slip.PreviousAmount = moneyOrZero(slip, "previous_amount", f.PreviousAmount)
	slip.PaymentsReceived = moneyOrZero(slip, "payments_received", f.PaymentsReceived)
	slip.Balance = moneyOrZero(slip, "balance", f.Balance)
	slip.AccruedAmount = moneyOrZero(slip, "accrued_amount", f.AccruedAmount)
	slip.TotalDue = moneyOrZero(slip, "total_due", f.TotalDue)

	diff := slip.PreviousAmount.Sub(slip.PaymentsReceived).Add(slip.AccruedAmount).Sub(slip.TotalDue)
	slip.BalanceConsistent = diff.Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
	return slip
}

func moneyOrZero(slip *entity.ParsedSlip, field, token string) decimal.Decimal {
	if strings.TrimSpace(token) == "" {
		return decimal.Zero
	}
	d, ok := extract.ParseAmount(token)
	if !ok {
		slip.MarkDegraded(field, "unparseable amount from generative extraction")
		return decimal.Zero
	}
	return d
}

package extract

import (
	"context"
	"log/slog"

	"github.com/dkazlauskas/bendrija-ingest/constants"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

// Input is the tagged union of supported input shapes, resolved once at the
// orchestrator boundary. Exactly one of Text or Rows is expected to be set.
type Input struct {
	Text        string
	Rows        [][]string
	PeriodMonth string
	FileName    string
}

// Extractor is one strategy in the deterministic extraction chain.
type Extractor interface {
	Name() constants.ExtractionSource
	Attempt(ctx context.Context, in Input) ([]*entity.ParsedSlip, error)
}

// StatementTextExtractor segments combined statement text and applies the
// regex field grammar to each chunk.
type StatementTextExtractor struct {
	logger *slog.Logger
}

func NewStatementTextExtractor(logger *slog.Logger) *StatementTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementTextExtractor{logger: logger}
}

func (e *StatementTextExtractor) Name() constants.ExtractionSource { return constants.SourceRegex }

func (e *StatementTextExtractor) Attempt(_ context.Context, in Input) ([]*entity.ParsedSlip, error) {
	if in.Text == "" {
		return nil, nil
	}
	chunks := SegmentStatements(in.Text)
	slips := make([]*entity.ParsedSlip, 0, len(chunks))
	for i, chunk := range chunks {
		slip := ParseStatementChunk(chunk)
		if slip == nil {
			e.logger.Warn("extract.regex.chunk_skipped", "chunk", i, "reason", "mandatory fields missing")
			continue
		}
		slip.Source = constants.SourceRegex
		if slip.PeriodMonth == "" {
			slip.PeriodMonth = in.PeriodMonth
		}
		slips = append(slips, slip)
	}
	e.logger.Info("extract.regex.done", "chunks", len(chunks), "slips", len(slips))
	return slips, nil
}

// TabularRowsExtractor reads spreadsheet rows through the header heuristic.
type TabularRowsExtractor struct {
	logger *slog.Logger
}

func NewTabularRowsExtractor(logger *slog.Logger) *TabularRowsExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TabularRowsExtractor{logger: logger}
}

func (e *TabularRowsExtractor) Name() constants.ExtractionSource { return constants.SourceTabular }

func (e *TabularRowsExtractor) Attempt(_ context.Context, in Input) ([]*entity.ParsedSlip, error) {
	if len(in.Rows) == 0 {
		return nil, nil
	}
	slips := ExtractFromRows(in.Rows)
	for _, slip := range slips {
		slip.Source = constants.SourceTabular
		if slip.PeriodMonth == "" {
			slip.PeriodMonth = in.PeriodMonth
		}
	}
	e.logger.Info("extract.tabular.done", "rows", len(in.Rows), "slips", len(slips))
	return slips, nil
}

// RunChain tries the extractors in order and stops at the first non-empty
// result. Deterministic strategies always run before the generative
// fallback, which the orchestrator appends only when enabled.
func RunChain(ctx context.Context, extractors []Extractor, in Input) ([]*entity.ParsedSlip, constants.ExtractionSource, error) {
	for _, ex := range extractors {
		slips, err := ex.Attempt(ctx, in)
		if err != nil {
			return nil, ex.Name(), err
		}
		if len(slips) > 0 {
			return slips, ex.Name(), nil
		}
	}
	return nil, "", nil
}

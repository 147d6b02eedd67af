// Package recognize learns vendor→category associations from repeated
// uploads and applies them to new invoice candidates.
package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dkazlauskas/bendrija-ingest/constants"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

// PatternStore is the narrow repository surface the recognizer needs. The
// increment is atomic in the store, never read-modify-write here: concurrent
// uploads recognizing the same vendor must not lose counts.
type PatternStore interface {
	// ListByUsage returns the corpus ordered by recognition count descending
	// so frequent vendors are checked first.
	ListByUsage(ctx context.Context) ([]*entity.RecognitionPattern, error)
	// Touch atomically increments the pattern's recognition count and
	// refreshes its last-used timestamp, returning the new count.
	Touch(ctx context.Context, id uuid.UUID) (int, error)
}

// Suggestion is the recognizer's verdict for one candidate string.
type Suggestion struct {
	VendorID    *uuid.UUID
	CategoryID  *uuid.UUID
	IsRecurring bool
	Pattern     *entity.RecognitionPattern
}

type Recognizer struct {
	store  PatternStore
	logger *slog.Logger
}

func NewRecognizer(store PatternStore, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{store: store, logger: logger}
}

// NormalizeVendorName lowercases, strips all quote characters and collapses
// whitespace. Normalizing an already-normalized name is a no-op.
func NormalizeVendorName(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '`', '„', '“', '”', '‘', '’', '«', '»':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// SignificantToken returns the first word of length ≥4 that is not a
// legal-entity abbreviation, or "" when the name has no usable token.
func SignificantToken(normalized string) string {
	for _, word := range strings.Fields(normalized) {
		if utf8.RuneCountInString(word) < 4 {
			continue
		}
		if constants.IsLegalEntityAbbrev(word) {
			continue
		}
		return word
	}
	return ""
}

// matchable flattens a candidate for the loose containment test: normalized
// with all whitespace removed, so filename noise around the token is
// tolerated.
func matchable(candidate string) string {
	return strings.Join(strings.Fields(NormalizeVendorName(candidate)), "")
}

// Recognize checks the candidate (a filename or an extracted vendor name)
// against the learned corpus first, then against the live vendor list. Only
// a corpus hit counts as a recurring vendor and bumps the usage counter.
func (r *Recognizer) Recognize(ctx context.Context, candidate string, vendors []*entity.Vendor) (*Suggestion, error) {
	haystack := matchable(candidate)
	if haystack == "" {
		return nil, nil
	}

	patterns, err := r.store.ListByUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	for _, p := range patterns {
		if p.SignificantToken == "" || !strings.Contains(haystack, p.SignificantToken) {
			continue
		}
		count, err := r.store.Touch(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("touch pattern %s: %w", p.ID, err)
		}
		p.RecognitionCount = count
		vendorID, categoryID := p.VendorID, p.CategoryID
		r.logger.Info("recognize.pattern_hit",
			"pattern_id", p.ID,
			"token", p.SignificantToken,
			"recognition_count", count,
		)
		return &Suggestion{
			VendorID:    &vendorID,
			CategoryID:  &categoryID,
			IsRecurring: true,
			Pattern:     p,
		}, nil
	}

	// no learned pattern: try the live vendor list, without touching any counter
	for _, v := range vendors {
		token := SignificantToken(NormalizeVendorName(v.Name))
		if token == "" || !strings.Contains(haystack, token) {
			continue
		}
		vendorID := v.ID
		r.logger.Info("recognize.vendor_list_hit", "vendor_id", v.ID, "token", token)
		return &Suggestion{VendorID: &vendorID}, nil
	}

	return nil, nil
}

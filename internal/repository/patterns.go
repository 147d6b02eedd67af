package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
	"github.com/dkazlauskas/bendrija-ingest/internal/recognize"
)

// PatternRepository persists the learned vendor-recognition corpus. It also
// satisfies recognize.PatternStore.
type PatternRepository interface {
	ListByUsage(ctx context.Context) ([]*entity.RecognitionPattern, error)
	Touch(ctx context.Context, id uuid.UUID) (int, error)
	UpsertConfirmed(ctx context.Context, vendorName string, vendorID, categoryID uuid.UUID) (*entity.RecognitionPattern, error)
}

type patternRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPatternRepository(pool *pgxpool.Pool, logger *slog.Logger) PatternRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &patternRepository{pool: pool, logger: logger}
}

func (r *patternRepository) ListByUsage(ctx context.Context) ([]*entity.RecognitionPattern, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vendor_name, significant_token, vendor_id, category_id, recognition_count, last_used_at
		FROM invoice_patterns
		ORDER BY recognition_count DESC, vendor_name`)
	if err != nil {
		r.logger.Error("failed to list invoice patterns", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.RecognitionPattern
	for rows.Next() {
		var p entity.RecognitionPattern
		if err := rows.Scan(&p.ID, &p.VendorName, &p.SignificantToken, &p.VendorID, &p.CategoryID, &p.RecognitionCount, &p.LastUsedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Touch increments the recognition counter in a single UPDATE so concurrent
// uploads never lose counts to a read-modify-write race.
func (r *patternRepository) Touch(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		UPDATE invoice_patterns
		SET recognition_count = recognition_count + 1, last_used_at = now()
		WHERE id = $1
		RETURNING recognition_count`, id).Scan(&count)
	if err != nil {
		r.logger.Error("failed to touch invoice pattern", "pattern_id", id, "error", err)
		return 0, err
	}
	return count, nil
}

// UpsertConfirmed records an admin-confirmed vendor association. The row is
// keyed by the hash of the normalized vendor name, so re-confirming the same
// vendor updates the association instead of inserting a duplicate.
func (r *patternRepository) UpsertConfirmed(ctx context.Context, vendorName string, vendorID, categoryID uuid.UUID) (*entity.RecognitionPattern, error) {
	normalized := recognize.NormalizeVendorName(vendorName)
	token := recognize.SignificantToken(normalized)
	sum := sha256.Sum256([]byte(normalized))
	nameHash := hex.EncodeToString(sum[:])

	var p entity.RecognitionPattern
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoice_patterns (id, name_hash, vendor_name, significant_token, vendor_id, category_id, recognition_count, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, now())
		ON CONFLICT (name_hash) DO UPDATE
		SET vendor_id = EXCLUDED.vendor_id,
		    category_id = EXCLUDED.category_id,
		    recognition_count = invoice_patterns.recognition_count + 1,
		    last_used_at = now()
		RETURNING id, vendor_name, significant_token, vendor_id, category_id, recognition_count, last_used_at`,
		uuid.New(), nameHash, normalized, token, vendorID, categoryID,
	).Scan(&p.ID, &p.VendorName, &p.SignificantToken, &p.VendorID, &p.CategoryID, &p.RecognitionCount, &p.LastUsedAt)
	if err != nil {
		r.logger.Error("failed to upsert invoice pattern", "vendor_name", normalized, "error", err)
		return nil, err
	}
	r.logger.Info("pattern.confirmed", "pattern_id", p.ID, "token", p.SignificantToken, "recognition_count", p.RecognitionCount)
	return &p, nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkazlauskas/bendrija-ingest/internal/common"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

type BatchRepository interface {
	// CreateWithSlips persists the batch header and all of its slips in one
	// transaction. A failure on any row rolls back the whole batch.
	CreateWithSlips(ctx context.Context, batch *entity.UploadBatch, slips []*entity.ParsedSlip) error
}

type batchRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewBatchRepository(pool *pgxpool.Pool, logger *slog.Logger) BatchRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &batchRepository{pool: pool, logger: logger}
}

func (r *batchRepository) CreateWithSlips(ctx context.Context, batch *entity.UploadBatch, slips []*entity.ParsedSlip) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return persistErr("begin batch transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO upload_batches (id, file_name, file_url, period_month, total, matched, pending, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		batch.ID, batch.FileName, batch.FileURL, batch.PeriodMonth,
		batch.Total, batch.Matched, batch.Pending, batch.CreatedAt)
	if err != nil {
		r.logger.Error("failed to insert upload batch", "batch_id", batch.ID, "error", err)
		return persistErr("insert upload batch", err)
	}

	for _, s := range slips {
		if err := r.insertSlip(ctx, tx, s); err != nil {
			r.logger.Error("failed to insert slip, rolling back batch",
				"batch_id", batch.ID, "invoice", s.InvoiceNumber, "error", err)
			return persistErr("insert parsed slip", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr("commit batch transaction", err)
	}
	r.logger.Info("batch.persisted", "batch_id", batch.ID, "total", batch.Total)
	return nil
}

func (r *batchRepository) insertSlip(ctx context.Context, tx pgx.Tx, s *entity.ParsedSlip) error {
	lineItems, err := json.Marshal(s.LineItems)
	if err != nil {
		return err
	}
	var meters []byte
	if s.Meters != nil {
		if meters, err = json.Marshal(s.Meters); err != nil {
			return err
		}
	}
	var quality []byte
	if len(s.FieldQuality) > 0 {
		if quality, err = json.Marshal(s.FieldQuality); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO parsed_slips (
			id, batch_id, invoice_number, invoice_date, due_date, period_month,
			buyer_name, address, apartment_number, payment_code,
			previous_amount, payments_received, balance, accrued_amount, total_due,
			line_items, meters, source, field_quality, balance_consistent,
			resident_id, assignment_status, matched_by
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23
		)`,
		s.ID, s.BatchID, s.InvoiceNumber, s.InvoiceDate, s.DueDate, s.PeriodMonth,
		s.BuyerName, s.Address, s.ApartmentNumber, s.PaymentCode,
		s.PreviousAmount.String(), s.PaymentsReceived.String(), s.Balance.String(),
		s.AccruedAmount.String(), s.TotalDue.String(),
		lineItems, meters, string(s.Source), quality, s.BalanceConsistent,
		s.ResidentID, string(s.AssignmentStatus), nullableString(string(s.MatchedBy)))
	return err
}

// persistErr wraps a storage failure so callers can match it with
// errors.Is(err, common.ErrPersistenceFailed) while keeping the cause visible.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, common.ErrPersistenceFailed)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

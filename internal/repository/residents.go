package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

type ResidentRepository interface {
	ListResidents(ctx context.Context) ([]*entity.Resident, error)
}

type residentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewResidentRepository(pool *pgxpool.Pool, logger *slog.Logger) ResidentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &residentRepository{pool: pool, logger: logger}
}

func (r *residentRepository) ListResidents(ctx context.Context) ([]*entity.Resident, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, apartment_number, COALESCE(payment_code, ''), COALESCE(full_name, ''), linked_profile_id
		FROM residents
		ORDER BY apartment_number`)
	if err != nil {
		r.logger.Error("failed to list residents", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Resident
	for rows.Next() {
		var res entity.Resident
		if err := rows.Scan(&res.ID, &res.ApartmentNumber, &res.PaymentCode, &res.FullName, &res.LinkedProfileID); err != nil {
			return nil, err
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

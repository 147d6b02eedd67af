package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

type VendorRepository interface {
	ListVendors(ctx context.Context) ([]*entity.Vendor, error)
	ListCategories(ctx context.Context) ([]*entity.CostCategory, error)
}

type vendorRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewVendorRepository(pool *pgxpool.Pool, logger *slog.Logger) VendorRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &vendorRepository{pool: pool, logger: logger}
}

func (r *vendorRepository) ListVendors(ctx context.Context) ([]*entity.Vendor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, company_code, vat_code, category
		FROM vendors
		ORDER BY name`)
	if err != nil {
		r.logger.Error("failed to list vendors", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Vendor
	for rows.Next() {
		var v entity.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.CompanyCode, &v.VATCode, &v.Category); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *vendorRepository) ListCategories(ctx context.Context) ([]*entity.CostCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, code
		FROM cost_categories
		ORDER BY code`)
	if err != nil {
		r.logger.Error("failed to list cost categories", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.CostCategory
	for rows.Next() {
		var c entity.CostCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

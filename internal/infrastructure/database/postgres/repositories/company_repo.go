// Package repositories implements the persistence ports over pgx.
package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/medequity/pharmarisk/internal/domain/company"
	apperrors "github.com/medequity/pharmarisk/pkg/errors"
)

// CompanyRepository persists the company reference data.
type CompanyRepository interface {
	GetByTicker(ctx context.Context, ticker string) (company.Company, error)
	Upsert(ctx context.Context, c company.Company) error
}

type companyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository constructs a CompanyRepository.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepo{pool: pool}
}

func (r *companyRepo) GetByTicker(ctx context.Context, ticker string) (company.Company, error) {
	const q = `SELECT ticker, name, annual_revenue FROM companies WHERE ticker = $1`

	var (
		c       company.Company
		revenue decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, q, ticker).Scan(&c.Ticker, &c.Name, &revenue)
	if errors.Is(err, pgx.ErrNoRows) {
		return company.Company{}, apperrors.New(apperrors.ErrCodeCompanyNotFound, "company %s not found", ticker)
	}
	if err != nil {
		return company.Company{}, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "load company %s", ticker)
	}
	c.AnnualRevenue = revenue
	return c, nil
}

func (r *companyRepo) Upsert(ctx context.Context, c company.Company) error {
	const q = `
		INSERT INTO companies (ticker, name, annual_revenue)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker) DO UPDATE
		SET name = EXCLUDED.name, annual_revenue = EXCLUDED.annual_revenue`

	if _, err := r.pool.Exec(ctx, q, c.Ticker, c.Name, c.AnnualRevenue); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "upsert company %s", c.Ticker)
	}
	return nil
}

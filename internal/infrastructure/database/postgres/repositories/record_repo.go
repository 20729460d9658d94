package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medequity/pharmarisk/internal/domain/patent"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	apperrors "github.com/medequity/pharmarisk/pkg/errors"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// RecordRepository persists normalized events and patent portfolios so
// repeat analyses do not depend on upstream feed availability.
type RecordRepository interface {
	SaveEvents(ctx context.Context, ticker string, events []regulatory.Event) error
	ListEvents(ctx context.Context, ticker string) ([]regulatory.Event, error)
	SavePatents(ctx context.Context, ticker string, patents []patent.Patent) error
	ListPatents(ctx context.Context, ticker string) ([]patent.Patent, error)
}

type recordRepo struct {
	pool *pgxpool.Pool
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) RecordRepository {
	return &recordRepo{pool: pool}
}

// SaveEvents replaces the stored event set for the ticker in one
// transaction, so a partial feed refresh never leaves a mixed snapshot.
func (r *recordRepo) SaveEvents(ctx context.Context, ticker string, events []regulatory.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "begin save events for %s", ticker)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM regulatory_events WHERE ticker = $1`, ticker); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "clear events for %s", ticker)
	}

	const q = `
		INSERT INTO regulatory_events
			(id, ticker, kind, event_date, descriptor, source, status, severity,
			 classification, application_type, indication, priority_review)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, e := range events {
		_, err := tx.Exec(ctx, q,
			string(e.ID), ticker, string(e.Kind), e.Date, e.Descriptor, e.Source,
			string(e.Status), string(e.Severity), string(e.Classification),
			e.ApplicationType, e.Indication, e.PriorityReview)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "insert event for %s", ticker)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "commit events for %s", ticker)
	}
	return nil
}

func (r *recordRepo) ListEvents(ctx context.Context, ticker string) ([]regulatory.Event, error) {
	const q = `
		SELECT id, kind, event_date, descriptor, source, status, severity,
		       classification, application_type, indication, priority_review
		FROM regulatory_events
		WHERE ticker = $1
		ORDER BY event_date, id`

	rows, err := r.pool.Query(ctx, q, ticker)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "list events for %s", ticker)
	}
	defer rows.Close()

	var events []regulatory.Event
	for rows.Next() {
		var (
			e                                          regulatory.Event
			id, kind, status, severity, classification string
			date                                       time.Time
		)
		err := rows.Scan(&id, &kind, &date, &e.Descriptor, &e.Source, &status, &severity,
			&classification, &e.ApplicationType, &e.Indication, &e.PriorityReview)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "scan event for %s", ticker)
		}
		e.ID = common.ID(id)
		e.Kind = regulatory.EventKind(kind)
		e.Date = date
		e.Status = regulatory.LetterStatus(status)
		e.Severity = common.Severity(severity)
		e.Classification = regulatory.InspectionClassification(classification)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "iterate events for %s", ticker)
	}
	return events, nil
}

// SavePatents replaces the stored portfolio for the ticker.
func (r *recordRepo) SavePatents(ctx context.Context, ticker string, patents []patent.Patent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "begin save patents for %s", ticker)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM patents WHERE ticker = $1`, ticker); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "clear patents for %s", ticker)
	}

	const q = `
		INSERT INTO patents
			(patent_number, ticker, title, technology_area, filing_date,
			 expiry_date, revenue_share, blockbuster)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, p := range patents {
		_, err := tx.Exec(ctx, q,
			p.Number, ticker, p.Title, p.TechnologyArea, p.FilingDate,
			p.ExpiryDate, p.RevenueShare, p.Blockbuster)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "insert patent for %s", ticker)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "commit patents for %s", ticker)
	}
	return nil
}

func (r *recordRepo) ListPatents(ctx context.Context, ticker string) ([]patent.Patent, error) {
	const q = `
		SELECT patent_number, title, technology_area, filing_date, expiry_date,
		       revenue_share, blockbuster
		FROM patents
		WHERE ticker = $1
		ORDER BY expiry_date, patent_number`

	rows, err := r.pool.Query(ctx, q, ticker)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "list patents for %s", ticker)
	}
	defer rows.Close()

	patents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (patent.Patent, error) {
		var p patent.Patent
		err := row.Scan(&p.Number, &p.Title, &p.TechnologyArea, &p.FilingDate,
			&p.ExpiryDate, &p.RevenueShare, &p.Blockbuster)
		return p, err
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "scan patents for %s", ticker)
	}
	return patents, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"signoff-dashboard/backend/internal/runlog/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a runlog repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const runColumns = `id, as_of, started_at, completed_at, history_rows,
	qualification_rows, never_rows, risk_rows, dropped_dimension, dropped_dates`

// GetByID returns the run for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.ReportRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM report_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

// List returns runs newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int32) ([]*domain.ReportRun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM report_runs ORDER BY started_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ReportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Create persists the run record. The run must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, run *domain.ReportRun) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO report_runs (id, as_of, started_at, completed_at, history_rows,
			qualification_rows, never_rows, risk_rows, dropped_dimension, dropped_dates)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.AsOf, run.StartedAt, run.CompletedAt, run.HistoryRows,
		run.QualificationRows, run.NeverRows, run.RiskRows,
		run.DroppedDimension, run.DroppedDates)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.ReportRun, error) {
	var run domain.ReportRun
	if err := row.Scan(&run.ID, &run.AsOf, &run.StartedAt, &run.CompletedAt,
		&run.HistoryRows, &run.QualificationRows, &run.NeverRows, &run.RiskRows,
		&run.DroppedDimension, &run.DroppedDates); err != nil {
		return nil, err
	}
	return &run, nil
}

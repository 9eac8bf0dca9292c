package repository

import (
	"context"
	"database/sql"
	"errors"

	"signoff-dashboard/backend/internal/signoff/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a signoff repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `id, contract_id, user_id, created_at, method_id, identity_id,
	defer_reason_id, engagement_id, event_type_id, deleted`

// GetEventByID returns the event for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetEventByID(ctx context.Context, id string) (*domain.SignoffEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM signoff_events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// ListEvents returns all events, including soft-deleted ones.
func (r *PostgresRepository) ListEvents(ctx context.Context) ([]*domain.SignoffEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM signoff_events ORDER BY contract_id, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListEventsByContract returns all events for a contract, including soft-deleted ones.
func (r *PostgresRepository) ListEventsByContract(ctx context.Context, contractID string) ([]*domain.SignoffEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM signoff_events WHERE contract_id = $1 ORDER BY created_at DESC`,
		contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// CreateEvent persists the event. The event must have ID set; it is not assigned by this method.
func (r *PostgresRepository) CreateEvent(ctx context.Context, e *domain.SignoffEvent) error {
	deferReason := sql.NullString{String: e.DeferReasonID, Valid: e.DeferReasonID != ""}
	engagement := sql.NullString{String: e.EngagementID, Valid: e.EngagementID != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO signoff_events (id, contract_id, user_id, created_at, method_id,
			identity_id, defer_reason_id, engagement_id, event_type_id, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.ContractID, e.UserID, e.CreatedAt, e.MethodID, e.IdentityID,
		deferReason, engagement, e.EventTypeID, e.Deleted)
	return err
}

// SoftDeleteEvent marks the event deleted. No-op if the event does not exist.
func (r *PostgresRepository) SoftDeleteEvent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE signoff_events SET deleted = TRUE WHERE id = $1`, id)
	return err
}

// ListAssignments returns all responsible-user assignments, including soft-deleted ones.
func (r *PostgresRepository) ListAssignments(ctx context.Context) ([]*domain.ResponsibleUserAssignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, contract_id, user_id, deleted FROM responsible_user_assignments ORDER BY contract_id, user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ResponsibleUserAssignment
	for rows.Next() {
		var a domain.ResponsibleUserAssignment
		if err := rows.Scan(&a.ID, &a.ContractID, &a.UserID, &a.Deleted); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CreateAssignment persists the assignment. The assignment must have ID set.
func (r *PostgresRepository) CreateAssignment(ctx context.Context, a *domain.ResponsibleUserAssignment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO responsible_user_assignments (id, contract_id, user_id, deleted)
		 VALUES ($1, $2, $3, $4)`,
		a.ID, a.ContractID, a.UserID, a.Deleted)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.SignoffEvent, error) {
	var e domain.SignoffEvent
	var deferReason, engagement sql.NullString
	if err := row.Scan(&e.ID, &e.ContractID, &e.UserID, &e.CreatedAt, &e.MethodID,
		&e.IdentityID, &deferReason, &engagement, &e.EventTypeID, &e.Deleted); err != nil {
		return nil, err
	}
	e.DeferReasonID = deferReason.String
	e.EngagementID = engagement.String
	return &e, nil
}

func collectEvents(rows *sql.Rows) ([]*domain.SignoffEvent, error) {
	var out []*domain.SignoffEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

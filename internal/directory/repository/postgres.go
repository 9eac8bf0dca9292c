package repository

import (
	"context"
	"database/sql"
	"errors"

	"signoff-dashboard/backend/internal/directory/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a directory repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetUserByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	var masked sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, masked_external_id, deleted FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Title, &masked, &u.Deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.MaskedExternalID = masked.String
	return &u, nil
}

// ListUsers returns all users, including soft-deleted ones.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, masked_external_id, deleted FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		var u domain.User
		var masked sql.NullString
		if err := rows.Scan(&u.ID, &u.Title, &masked, &u.Deleted); err != nil {
			return nil, err
		}
		u.MaskedExternalID = masked.String
		out = append(out, &u)
	}
	return out, rows.Err()
}

// CreateUser persists the user. The user must have ID set.
func (r *PostgresRepository) CreateUser(ctx context.Context, u *domain.User) error {
	masked := sql.NullString{String: u.MaskedExternalID, Valid: u.MaskedExternalID != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, title, masked_external_id, deleted) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Title, masked, u.Deleted)
	return err
}

// ListHierarchy returns all org hierarchy entries, including soft-deleted ones.
func (r *PostgresRepository) ListHierarchy(ctx context.Context) ([]*domain.OrgHierarchyEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT raw_id, level6_name, level7_name, level8_name, level9_name, manager_name, theater, deleted
		 FROM org_hierarchy ORDER BY raw_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.OrgHierarchyEntry
	for rows.Next() {
		var h domain.OrgHierarchyEntry
		if err := rows.Scan(&h.RawID, &h.Level6Name, &h.Level7Name, &h.Level8Name,
			&h.Level9Name, &h.ManagerName, &h.Theater, &h.Deleted); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// CreateHierarchyEntry persists the hierarchy entry. The entry must have RawID set.
func (r *PostgresRepository) CreateHierarchyEntry(ctx context.Context, h *domain.OrgHierarchyEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO org_hierarchy (raw_id, level6_name, level7_name, level8_name,
			level9_name, manager_name, theater, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.RawID, h.Level6Name, h.Level7Name, h.Level8Name, h.Level9Name,
		h.ManagerName, h.Theater, h.Deleted)
	return err
}

package repository

import (
	"context"

	"signoff-dashboard/backend/internal/refdata/domain"
)

// Repository defines read access to the reference dimension tables.
type Repository interface {
	// LoadSet reads every dimension table into one immutable Set.
	LoadSet(ctx context.Context) (*domain.Set, error)
	// Upsert writes a dimension row into the named table. Used by seeding.
	Upsert(ctx context.Context, table string, d domain.Dimension) error
}

package repository

import (
	"context"

	"signoff-dashboard/backend/internal/runlog/domain"
)

// Repository defines persistence for report run records.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.ReportRun, error)
	// List returns runs newest first.
	List(ctx context.Context, limit, offset int32) ([]*domain.ReportRun, error)
	Create(ctx context.Context, run *domain.ReportRun) error
}

package repository

import (
	"context"

	"signoff-dashboard/backend/internal/contract/domain"
)

// Repository defines persistence for booking contracts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.BookingContract, error)
	// List returns all contracts, including soft-deleted ones. The report
	// snapshot applies its own deletion and eligibility filters.
	List(ctx context.Context) ([]*domain.BookingContract, error)
	Create(ctx context.Context, c *domain.BookingContract) error
}

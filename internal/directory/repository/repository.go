package repository

import (
	"context"

	"signoff-dashboard/backend/internal/directory/domain"
)

// Repository defines persistence for the user directory and org hierarchy extracts.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error

	ListHierarchy(ctx context.Context) ([]*domain.OrgHierarchyEntry, error)
	CreateHierarchyEntry(ctx context.Context, h *domain.OrgHierarchyEntry) error
}

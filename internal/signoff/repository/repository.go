package repository

import (
	"context"

	"signoff-dashboard/backend/internal/signoff/domain"
)

// Repository defines persistence for signoff events and responsible-user assignments.
type Repository interface {
	GetEventByID(ctx context.Context, id string) (*domain.SignoffEvent, error)
	// ListEvents returns all events including soft-deleted ones. Deletion
	// filtering is a per-pipeline concern: the never-signed-off anti-join must
	// see deleted events while every other pipeline must not.
	ListEvents(ctx context.Context) ([]*domain.SignoffEvent, error)
	ListEventsByContract(ctx context.Context, contractID string) ([]*domain.SignoffEvent, error)
	CreateEvent(ctx context.Context, e *domain.SignoffEvent) error
	// SoftDeleteEvent marks the event deleted. No-op if the event does not exist.
	SoftDeleteEvent(ctx context.Context, id string) error

	// ListAssignments returns all responsible-user assignments including soft-deleted ones.
	ListAssignments(ctx context.Context) ([]*domain.ResponsibleUserAssignment, error)
	CreateAssignment(ctx context.Context, a *domain.ResponsibleUserAssignment) error
}

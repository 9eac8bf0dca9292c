package domain

import (
	"errors"
	"time"
)

// SignoffEvent is a timestamped attestation recorded against a contract.
// Events are append-only: they are never mutated, only soft-deleted.
// DeferReasonID and EngagementID are empty when the source columns are null.
type SignoffEvent struct {
	ID            string
	ContractID    string
	UserID        string
	CreatedAt     time.Time
	MethodID      string
	IdentityID    string
	DeferReasonID string
	EngagementID  string
	EventTypeID   string
	Deleted       bool
}

// Validate validates the event for persistence. Returns an error describing the first validation failure.
func (e *SignoffEvent) Validate() error {
	if e.ContractID == "" {
		return errors.New("contract id is required")
	}
	if e.UserID == "" {
		return errors.New("user id is required")
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created at is required")
	}
	if e.MethodID == "" {
		return errors.New("method id is required")
	}
	if e.IdentityID == "" {
		return errors.New("identity id is required")
	}
	return nil
}

// IsDeferred reports whether the event was recorded under the reserved deferred method.
func (e *SignoffEvent) IsDeferred(deferredMethodID string) bool {
	return e.MethodID == deferredMethodID
}

// ResponsibleUserAssignment attributes a contract to a user when no signoff
// event exists. Used only by the never-signed-off and risk pipelines.
type ResponsibleUserAssignment struct {
	ID         string
	ContractID string
	UserID     string
	Deleted    bool
}

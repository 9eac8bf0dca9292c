// Package producer defines the interface for emitting report run events (e.g. to Kafka).
package producer

import (
	"context"

	runlogdomain "signoff-dashboard/backend/internal/runlog/domain"
)

// Producer emits run events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// EmitRun sends a single run record. Implementations may block briefly; call from a goroutine if needed.
	// Returns an error only on write failure; callers typically log and ignore.
	EmitRun(ctx context.Context, run *runlogdomain.ReportRun) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}

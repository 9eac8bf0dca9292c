// Package report implements the contract signoff compliance resolution engine:
// eligibility windows, latest-event resolution, status classification, org
// attribution, and the four output pipelines consumed by the dashboard.
package report

import (
	"context"
	"fmt"
	"time"

	contractdomain "signoff-dashboard/backend/internal/contract/domain"
	contractrepo "signoff-dashboard/backend/internal/contract/repository"
	directorydomain "signoff-dashboard/backend/internal/directory/domain"
	directoryrepo "signoff-dashboard/backend/internal/directory/repository"
	refdomain "signoff-dashboard/backend/internal/refdata/domain"
	refrepo "signoff-dashboard/backend/internal/refdata/repository"
	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
	signoffrepo "signoff-dashboard/backend/internal/signoff/repository"
)

// Snapshot is one immutable read of every input table plus the single pinned
// as-of timestamp. All four pipelines compute against the same Snapshot; no
// component reads the wall clock independently, so identical snapshots produce
// identical output.
type Snapshot struct {
	AsOf        time.Time
	Contracts   []*contractdomain.BookingContract
	Events      []*signoffdomain.SignoffEvent
	Assignments []*signoffdomain.ResponsibleUserAssignment
	Users       map[string]*directorydomain.User
	Hierarchy   []*directorydomain.OrgHierarchyEntry
	Dimensions  *refdomain.Set
}

// Loader builds snapshots from the repositories.
type Loader struct {
	contracts contractrepo.Repository
	signoffs  signoffrepo.Repository
	directory directoryrepo.Repository
	refdata   refrepo.Repository
}

// NewLoader returns a Loader over the given repositories.
func NewLoader(contracts contractrepo.Repository, signoffs signoffrepo.Repository,
	directory directoryrepo.Repository, refdata refrepo.Repository) *Loader {
	return &Loader{
		contracts: contracts,
		signoffs:  signoffs,
		directory: directory,
		refdata:   refdata,
	}
}

// Load reads all input tables once and pins asOf on the result. The bulk read
// is the only I/O a run performs; everything after operates on the returned
// Snapshot in memory.
func (l *Loader) Load(ctx context.Context, asOf time.Time) (*Snapshot, error) {
	contracts, err := l.contracts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: contracts: %w", err)
	}
	events, err := l.signoffs.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: events: %w", err)
	}
	assignments, err := l.signoffs.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: assignments: %w", err)
	}
	users, err := l.directory.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: users: %w", err)
	}
	hierarchy, err := l.directory.ListHierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: hierarchy: %w", err)
	}
	dimensions, err := l.refdata.LoadSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	byID := make(map[string]*directorydomain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	return &Snapshot{
		AsOf:        asOf,
		Contracts:   contracts,
		Events:      events,
		Assignments: assignments,
		Users:       byID,
		Hierarchy:   hierarchy,
		Dimensions:  dimensions,
	}, nil
}

// eventsByContract groups non-deleted events by contract id. keepDeferred
// controls whether deferred-method events are included; the three resolution
// policies differ on exactly this.
func (s *Snapshot) eventsByContract(deferredMethodID string, keepDeferred bool) map[string][]*signoffdomain.SignoffEvent {
	out := make(map[string][]*signoffdomain.SignoffEvent)
	for _, e := range s.Events {
		if e.Deleted {
			continue
		}
		if !keepDeferred && e.IsDeferred(deferredMethodID) {
			continue
		}
		out[e.ContractID] = append(out[e.ContractID], e)
	}
	return out
}

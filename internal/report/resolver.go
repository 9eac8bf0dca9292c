package report

import (
	"time"

	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
)

// winner identifies the resolved rank-1 event of a contract: the maximum
// (timestamp, user id) pair under descending order on both.
type winner struct {
	createdAt time.Time
	userID    string
}

// resolveAnnotated implements policy A for one contract: rank the non-deferred
// events by timestamp descending, tie-break by user id descending, and return
// the rank-1 winner. ok is false when the contract has no non-deferred events,
// in which case no history row carries the latest flag.
func resolveAnnotated(nonDeferred []*signoffdomain.SignoffEvent) (winner, bool) {
	if len(nonDeferred) == 0 {
		return winner{}, false
	}
	w := winner{createdAt: nonDeferred[0].CreatedAt, userID: nonDeferred[0].UserID}
	for _, e := range nonDeferred[1:] {
		if e.CreatedAt.After(w.createdAt) ||
			(e.CreatedAt.Equal(w.createdAt) && e.UserID > w.userID) {
			w = winner{createdAt: e.CreatedAt, userID: e.UserID}
		}
	}
	return w, true
}

// isLatest reports whether the event matches the resolved winner on exact
// timestamp and exact user id. Multiple events sharing the winning pair are
// all flagged; the policy does not guarantee a single flagged row per contract.
func (w winner) isLatest(e *signoffdomain.SignoffEvent) bool {
	return e.CreatedAt.Equal(w.createdAt) && e.UserID == w.userID
}

// resolveCollapsed implements the aggregation shared by policies B and C for
// one contract: select the event(s) with the maximum timestamp. Ties on the
// timestamp are not broken; every event carrying the maximum is returned, and
// callers must surface the fan-out rather than deduplicate it.
func resolveCollapsed(events []*signoffdomain.SignoffEvent) []*signoffdomain.SignoffEvent {
	if len(events) == 0 {
		return nil
	}
	max := events[0].CreatedAt
	for _, e := range events[1:] {
		if e.CreatedAt.After(max) {
			max = e.CreatedAt
		}
	}
	var out []*signoffdomain.SignoffEvent
	for _, e := range events {
		if e.CreatedAt.Equal(max) {
			out = append(out, e)
		}
	}
	return out
}

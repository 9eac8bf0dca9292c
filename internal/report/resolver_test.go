package report

import (
	"testing"
	"time"

	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
)

func event(id, userID string, at time.Time) *signoffdomain.SignoffEvent {
	return &signoffdomain.SignoffEvent{
		ID:         id,
		ContractID: "c-1",
		UserID:     userID,
		CreatedAt:  at,
		MethodID:   "direct",
		IdentityID: "customer",
	}
}

func TestResolveAnnotated_Empty(t *testing.T) {
	if _, ok := resolveAnnotated(nil); ok {
		t.Error("resolveAnnotated(nil) ok = true, want false")
	}
}

func TestResolveAnnotated_LatestTimestampWins(t *testing.T) {
	events := []*signoffdomain.SignoffEvent{
		event("e1", "u-1", date(2024, 3, 1)),
		event("e2", "u-2", date(2024, 5, 1)),
		event("e3", "u-3", date(2024, 4, 1)),
	}
	w, ok := resolveAnnotated(events)
	if !ok {
		t.Fatal("resolveAnnotated() ok = false, want true")
	}
	if !w.createdAt.Equal(date(2024, 5, 1)) || w.userID != "u-2" {
		t.Errorf("winner = (%s, %q), want (2024-05-01, u-2)", w.createdAt, w.userID)
	}
}

func TestResolveAnnotated_TimestampTieBreaksOnUserID(t *testing.T) {
	at := date(2024, 5, 1)
	events := []*signoffdomain.SignoffEvent{
		event("e1", "u-1", at),
		event("e2", "u-9", at),
		event("e3", "u-5", at),
	}
	w, ok := resolveAnnotated(events)
	if !ok {
		t.Fatal("resolveAnnotated() ok = false, want true")
	}
	if w.userID != "u-9" {
		t.Errorf("winner user = %q, want u-9 (descending tie-break)", w.userID)
	}
}

func TestWinnerIsLatest_FansOutOnExactTie(t *testing.T) {
	// Two events by the same user at the same instant both match the winner.
	at := date(2024, 5, 1)
	events := []*signoffdomain.SignoffEvent{
		event("e1", "u-1", at),
		event("e2", "u-1", at),
		event("e3", "u-1", date(2024, 4, 1)),
	}
	w, _ := resolveAnnotated(events)

	flagged := 0
	for _, e := range events {
		if w.isLatest(e) {
			flagged++
		}
	}
	if flagged != 2 {
		t.Errorf("flagged events = %d, want 2", flagged)
	}
}

func TestResolveCollapsed(t *testing.T) {
	at := date(2024, 5, 1)
	events := []*signoffdomain.SignoffEvent{
		event("e1", "u-1", date(2024, 3, 1)),
		event("e2", "u-2", at),
		event("e3", "u-3", at),
	}
	latest := resolveCollapsed(events)
	if len(latest) != 2 {
		t.Fatalf("len(latest) = %d, want 2 (tie fan-out)", len(latest))
	}
	for _, e := range latest {
		if !e.CreatedAt.Equal(at) {
			t.Errorf("event %s timestamp = %s, want %s", e.ID, e.CreatedAt, at)
		}
	}

	if got := resolveCollapsed(nil); got != nil {
		t.Errorf("resolveCollapsed(nil) = %v, want nil", got)
	}
}

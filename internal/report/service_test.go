package report

import (
	"context"
	"sync"
	"testing"
	"time"

	contractdomain "signoff-dashboard/backend/internal/contract/domain"
	directorydomain "signoff-dashboard/backend/internal/directory/domain"
	refdomain "signoff-dashboard/backend/internal/refdata/domain"
	runlogdomain "signoff-dashboard/backend/internal/runlog/domain"
	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
)

type fakeContractRepo struct{ contracts []*contractdomain.BookingContract }

func (f *fakeContractRepo) GetByID(ctx context.Context, id string) (*contractdomain.BookingContract, error) {
	for _, c := range f.contracts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeContractRepo) List(ctx context.Context) ([]*contractdomain.BookingContract, error) {
	return f.contracts, nil
}

func (f *fakeContractRepo) Create(ctx context.Context, c *contractdomain.BookingContract) error {
	f.contracts = append(f.contracts, c)
	return nil
}

type fakeSignoffRepo struct {
	events      []*signoffdomain.SignoffEvent
	assignments []*signoffdomain.ResponsibleUserAssignment
}

func (f *fakeSignoffRepo) GetEventByID(ctx context.Context, id string) (*signoffdomain.SignoffEvent, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeSignoffRepo) ListEvents(ctx context.Context) ([]*signoffdomain.SignoffEvent, error) {
	return f.events, nil
}

func (f *fakeSignoffRepo) ListEventsByContract(ctx context.Context, contractID string) ([]*signoffdomain.SignoffEvent, error) {
	var out []*signoffdomain.SignoffEvent
	for _, e := range f.events {
		if e.ContractID == contractID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSignoffRepo) CreateEvent(ctx context.Context, e *signoffdomain.SignoffEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeSignoffRepo) SoftDeleteEvent(ctx context.Context, id string) error {
	for _, e := range f.events {
		if e.ID == id {
			e.Deleted = true
		}
	}
	return nil
}

func (f *fakeSignoffRepo) ListAssignments(ctx context.Context) ([]*signoffdomain.ResponsibleUserAssignment, error) {
	return f.assignments, nil
}

func (f *fakeSignoffRepo) CreateAssignment(ctx context.Context, a *signoffdomain.ResponsibleUserAssignment) error {
	f.assignments = append(f.assignments, a)
	return nil
}

type fakeDirectoryRepo struct {
	users     []*directorydomain.User
	hierarchy []*directorydomain.OrgHierarchyEntry
}

func (f *fakeDirectoryRepo) GetUserByID(ctx context.Context, id string) (*directorydomain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectoryRepo) ListUsers(ctx context.Context) ([]*directorydomain.User, error) {
	return f.users, nil
}

func (f *fakeDirectoryRepo) CreateUser(ctx context.Context, u *directorydomain.User) error {
	f.users = append(f.users, u)
	return nil
}

func (f *fakeDirectoryRepo) ListHierarchy(ctx context.Context) ([]*directorydomain.OrgHierarchyEntry, error) {
	return f.hierarchy, nil
}

func (f *fakeDirectoryRepo) CreateHierarchyEntry(ctx context.Context, h *directorydomain.OrgHierarchyEntry) error {
	f.hierarchy = append(f.hierarchy, h)
	return nil
}

type fakeRefdataRepo struct{ set *refdomain.Set }

func (f *fakeRefdataRepo) LoadSet(ctx context.Context) (*refdomain.Set, error) {
	return f.set, nil
}

func (f *fakeRefdataRepo) Upsert(ctx context.Context, table string, d refdomain.Dimension) error {
	return nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs []*runlogdomain.ReportRun
}

func (f *fakeRunRepo) GetByID(ctx context.Context, id string) (*runlogdomain.ReportRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRunRepo) List(ctx context.Context, limit, offset int32) ([]*runlogdomain.ReportRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs, nil
}

func (f *fakeRunRepo) Create(ctx context.Context, run *runlogdomain.ReportRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

type fakeEmitter struct {
	mu   sync.Mutex
	runs []*runlogdomain.ReportRun
	done chan struct{}
}

func (f *fakeEmitter) EmitRun(ctx context.Context, run *runlogdomain.ReportRun) error {
	f.mu.Lock()
	f.runs = append(f.runs, run)
	f.mu.Unlock()
	close(f.done)
	return nil
}

func fixtureService() (*Service, *fakeRunRepo, *fakeEmitter) {
	s := fixtureSnapshot()
	loader := NewLoader(
		&fakeContractRepo{contracts: s.Contracts},
		&fakeSignoffRepo{events: s.Events, assignments: s.Assignments},
		&fakeDirectoryRepo{users: usersSlice(s.Users), hierarchy: s.Hierarchy},
		&fakeRefdataRepo{set: s.Dimensions},
	)
	runs := &fakeRunRepo{}
	emitter := &fakeEmitter{done: make(chan struct{})}
	svc := NewService(loader, fixtureEngine(), runs, emitter,
		WithClock(func() time.Time { return s.AsOf }))
	return svc, runs, emitter
}

func usersSlice(m map[string]*directorydomain.User) []*directorydomain.User {
	var out []*directorydomain.User
	for _, u := range m {
		out = append(out, u)
	}
	return out
}

func TestServiceRefresh(t *testing.T) {
	svc, runs, emitter := fixtureService()

	if _, ok := svc.AsOf(); ok {
		t.Error("AsOf() ok = true before any refresh, want false")
	}

	run, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if run.ID == "" {
		t.Error("run.ID is empty")
	}
	if run.HistoryRows != 3 || run.QualificationRows != 1 || run.NeverRows != 1 || run.RiskRows != 1 {
		t.Errorf("run counts = (%d, %d, %d, %d), want (3, 1, 1, 1)",
			run.HistoryRows, run.QualificationRows, run.NeverRows, run.RiskRows)
	}

	asOf, ok := svc.AsOf()
	if !ok {
		t.Fatal("AsOf() ok = false after refresh")
	}
	if !asOf.Equal(time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("AsOf() = %s, want the pinned refresh time", asOf)
	}

	if len(runs.runs) != 1 {
		t.Errorf("persisted runs = %d, want 1", len(runs.runs))
	}

	select {
	case <-emitter.done:
	case <-time.After(time.Second):
		t.Fatal("run event was not emitted")
	}
	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if len(emitter.runs) != 1 || emitter.runs[0].ID != run.ID {
		t.Errorf("emitted runs = %v, want the refresh run", emitter.runs)
	}
}

func TestServiceQueries_BeforeRefresh(t *testing.T) {
	svc, _, _ := fixtureService()

	if rows, total := svc.History(Query{}); rows != nil || total != 0 {
		t.Errorf("History() before refresh = (%v, %d), want (nil, 0)", rows, total)
	}
}

func TestServiceHistory_Filters(t *testing.T) {
	svc, _, _ := fixtureService()
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	rows, total := svc.History(Query{ContractID: "c-1"})
	if total != 3 || len(rows) != 3 {
		t.Errorf("History(contract c-1) = %d rows, total %d, want 3/3", len(rows), total)
	}

	rows, total = svc.History(Query{ContractID: "no-such"})
	if total != 0 || len(rows) != 0 {
		t.Errorf("History(unknown contract) = %d rows, total %d, want 0/0", len(rows), total)
	}

	rows, total = svc.History(Query{From: date(2024, 6, 1), To: date(2024, 6, 30)})
	if total != 2 {
		t.Fatalf("History(June) total = %d, want 2", total)
	}
	for _, r := range rows {
		if r.SignoffAt.Before(date(2024, 6, 1)) || r.SignoffAt.After(date(2024, 6, 30)) {
			t.Errorf("row at %s outside the requested range", r.SignoffAt)
		}
	}
}

func TestServiceHistory_Pagination(t *testing.T) {
	svc, _, _ := fixtureService()
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	first, total := svc.History(Query{Limit: 2})
	if total != 3 || len(first) != 2 {
		t.Fatalf("page 1 = %d rows, total %d, want 2/3", len(first), total)
	}
	second, total := svc.History(Query{Limit: 2, Offset: 2})
	if total != 3 || len(second) != 1 {
		t.Fatalf("page 2 = %d rows, total %d, want 1/3", len(second), total)
	}
	if first[0].SignoffAt.Before(first[1].SignoffAt) {
		t.Error("page rows are not newest first")
	}

	past, total := svc.History(Query{Offset: 10})
	if total != 3 || past != nil {
		t.Errorf("offset past end = (%v, %d), want (nil, 3)", past, total)
	}
}

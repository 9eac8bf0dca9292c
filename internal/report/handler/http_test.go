package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contractdomain "signoff-dashboard/backend/internal/contract/domain"
	directorydomain "signoff-dashboard/backend/internal/directory/domain"
	refdomain "signoff-dashboard/backend/internal/refdata/domain"
	"signoff-dashboard/backend/internal/report"
	runlogdomain "signoff-dashboard/backend/internal/runlog/domain"
	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
)

type stubContracts struct{ contracts []*contractdomain.BookingContract }

func (s *stubContracts) GetByID(ctx context.Context, id string) (*contractdomain.BookingContract, error) {
	return nil, nil
}

func (s *stubContracts) List(ctx context.Context) ([]*contractdomain.BookingContract, error) {
	return s.contracts, nil
}

func (s *stubContracts) Create(ctx context.Context, c *contractdomain.BookingContract) error {
	return nil
}

type stubSignoffs struct {
	events  []*signoffdomain.SignoffEvent
	deleted []string
}

func (s *stubSignoffs) GetEventByID(ctx context.Context, id string) (*signoffdomain.SignoffEvent, error) {
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (s *stubSignoffs) ListEvents(ctx context.Context) ([]*signoffdomain.SignoffEvent, error) {
	return s.events, nil
}

func (s *stubSignoffs) ListEventsByContract(ctx context.Context, contractID string) ([]*signoffdomain.SignoffEvent, error) {
	var out []*signoffdomain.SignoffEvent
	for _, e := range s.events {
		if e.ContractID == contractID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubSignoffs) CreateEvent(ctx context.Context, e *signoffdomain.SignoffEvent) error {
	s.events = append(s.events, e)
	return nil
}

func (s *stubSignoffs) SoftDeleteEvent(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSignoffs) ListAssignments(ctx context.Context) ([]*signoffdomain.ResponsibleUserAssignment, error) {
	return nil, nil
}

func (s *stubSignoffs) CreateAssignment(ctx context.Context, a *signoffdomain.ResponsibleUserAssignment) error {
	return nil
}

type stubDirectory struct{}

func (s *stubDirectory) GetUserByID(ctx context.Context, id string) (*directorydomain.User, error) {
	return nil, nil
}

func (s *stubDirectory) ListUsers(ctx context.Context) ([]*directorydomain.User, error) {
	return []*directorydomain.User{{ID: "u-1"}}, nil
}

func (s *stubDirectory) CreateUser(ctx context.Context, u *directorydomain.User) error { return nil }

func (s *stubDirectory) ListHierarchy(ctx context.Context) ([]*directorydomain.OrgHierarchyEntry, error) {
	return nil, nil
}

func (s *stubDirectory) CreateHierarchyEntry(ctx context.Context, h *directorydomain.OrgHierarchyEntry) error {
	return nil
}

type stubRefdata struct{ set *refdomain.Set }

func (s *stubRefdata) LoadSet(ctx context.Context) (*refdomain.Set, error) { return s.set, nil }

func (s *stubRefdata) Upsert(ctx context.Context, table string, d refdomain.Dimension) error {
	return nil
}

type stubRuns struct{ runs []*runlogdomain.ReportRun }

func (s *stubRuns) GetByID(ctx context.Context, id string) (*runlogdomain.ReportRun, error) {
	return nil, nil
}

func (s *stubRuns) List(ctx context.Context, limit, offset int32) ([]*runlogdomain.ReportRun, error) {
	return s.runs, nil
}

func (s *stubRuns) Create(ctx context.Context, run *runlogdomain.ReportRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func testDimensions() *refdomain.Set {
	set := refdomain.NewSet()
	set.SignoffMethods["direct"] = refdomain.Dimension{ID: "direct", Label: "Direct"}
	set.SignoffIdentities["customer"] = refdomain.Dimension{ID: "customer", Label: "Customer"}
	set.ServiceTypes["st-1"] = refdomain.Dimension{ID: "st-1", Label: "Advisory"}
	set.BuyingPrograms["bp-1"] = refdomain.Dimension{ID: "bp-1", Label: "Enterprise"}
	set.Theaters["th-1"] = refdomain.Dimension{ID: "th-1", Label: "AMER"}
	set.PricingModels["pm-1"] = refdomain.Dimension{ID: "pm-1", Label: "Fixed"}
	return set
}

// testClock pins every refresh so the fixture's eligibility windows hold no
// matter when the tests run.
var testClock = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

func testHandler(t *testing.T) (*Handler, *http.ServeMux, *stubSignoffs) {
	t.Helper()
	contract := &contractdomain.BookingContract{
		ID:              "c-1",
		AccountName:     "Acme",
		TheaterID:       "th-1",
		ServiceTypeID:   "st-1",
		BuyingProgramID: "bp-1",
		PricingModelID:  "pm-1",
		AgreementStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AgreementEnd:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	signoffs := &stubSignoffs{events: []*signoffdomain.SignoffEvent{{
		ID:         "e-1",
		ContractID: "c-1",
		UserID:     "u-1",
		CreatedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		MethodID:   "direct",
		IdentityID: "customer",
	}}}

	loader := report.NewLoader(
		&stubContracts{contracts: []*contractdomain.BookingContract{contract}},
		signoffs,
		&stubDirectory{},
		&stubRefdata{set: testDimensions()},
	)
	engine := report.NewEngine("deferred", "corp.example.com", nil)
	svc := report.NewService(loader, engine, nil, nil,
		report.WithClock(func() time.Time { return testClock }))

	h := New(svc, &stubRuns{}, signoffs)
	mux := http.NewServeMux()
	h.Register(mux)
	return h, mux, signoffs
}

func TestListHistory_BeforeFirstRun(t *testing.T) {
	_, mux, _ := testHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/signoff-history", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRefreshThenListHistory(t *testing.T) {
	_, mux, _ := testHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/refresh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/signoff-history?contract_id=c-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp struct {
		AsOf  time.Time           `json:"as_of"`
		Total int                 `json:"total"`
		Rows  []report.HistoryRow `json:"rows"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.AsOf.Equal(testClock) {
		t.Errorf("as_of = %s, want the pinned clock %s", resp.AsOf, testClock)
	}
	if resp.Total != 1 || len(resp.Rows) != 1 {
		t.Fatalf("total = %d, rows = %d, want 1/1", resp.Total, len(resp.Rows))
	}
	if resp.Rows[0].ContractID != "c-1" || !resp.Rows[0].IsLastSignoff {
		t.Errorf("row = %+v, want flagged c-1 event", resp.Rows[0])
	}
}

func TestListHistory_InvalidDate(t *testing.T) {
	_, mux, _ := testHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/signoff-history?from=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateSignoff(t *testing.T) {
	_, mux, signoffs := testHandler(t)

	body := `{"contract_id":"c-1","user_id":"u-1","method_id":"direct","identity_id":"customer"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/signoffs", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}
	if len(signoffs.events) != 2 {
		t.Errorf("stored events = %d, want 2", len(signoffs.events))
	}
	created := signoffs.events[1]
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Errorf("created event missing generated fields: %+v", created)
	}
}

func TestCreateSignoff_MissingFields(t *testing.T) {
	_, mux, _ := testHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/signoffs", strings.NewReader(`{"contract_id":"c-1"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListSignoffs(t *testing.T) {
	_, mux, _ := testHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/signoffs?contract_id=c-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var events []*signoffdomain.SignoffEvent
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(events) != 1 || events[0].ID != "e-1" {
		t.Errorf("events = %v, want single e-1", events)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/signoffs", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without contract_id = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetSignoff(t *testing.T) {
	_, mux, _ := testHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/signoffs/e-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/signoffs/no-such", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeleteSignoff(t *testing.T) {
	_, mux, signoffs := testHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/signoffs/e-1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(signoffs.deleted) != 1 || signoffs.deleted[0] != "e-1" {
		t.Errorf("deleted = %v, want [e-1]", signoffs.deleted)
	}
}

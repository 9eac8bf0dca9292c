package report

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	runlogdomain "signoff-dashboard/backend/internal/runlog/domain"
	runlogrepo "signoff-dashboard/backend/internal/runlog/repository"
)

// emitTimeout is the max time allowed for a single async run-event emit.
const emitTimeout = 5 * time.Second

// RunEmitter publishes a completed run record to the telemetry bus.
// Emission is best-effort; failures must not affect the run.
type RunEmitter interface {
	EmitRun(ctx context.Context, run *runlogdomain.ReportRun) error
}

// Service owns report computation and serves the results to the dashboard.
// It keeps the latest Results in memory; derived rows are never persisted and
// are replaced wholesale on every refresh.
type Service struct {
	loader  *Loader
	engine  *Engine
	runs    runlogrepo.Repository
	emitter RunEmitter
	now     func() time.Time

	mu     sync.RWMutex
	latest *Results
}

// ServiceOption configures optional Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the wall clock used to pin the as-of timestamp of each
// run. The engine itself never reads the clock; this is the single injection
// point for tests and replays.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service. runs and emitter may be nil; then run records
// are not persisted / not emitted.
func NewService(loader *Loader, engine *Engine, runs runlogrepo.Repository, emitter RunEmitter, opts ...ServiceOption) *Service {
	s := &Service{
		loader:  loader,
		engine:  engine,
		runs:    runs,
		emitter: emitter,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh pins a new as-of timestamp, loads a fresh snapshot, recomputes all
// four pipelines, and swaps in the results. The run record is persisted and
// emitted best-effort; only snapshot load failures are returned.
func (s *Service) Refresh(ctx context.Context) (*runlogdomain.ReportRun, error) {
	started := s.now().UTC()
	asOf := started

	ctx, span := otel.Tracer("signoff-dashboard/report").Start(ctx, "report.refresh")
	defer span.End()

	snapshot, err := s.loader.Load(ctx, asOf)
	if err != nil {
		return nil, err
	}
	res := s.engine.Run(ctx, snapshot)
	span.SetAttributes(
		attribute.Int("report.history_rows", len(res.History)),
		attribute.Int("report.dropped_dimension", res.DroppedDimension),
		attribute.Int("report.dropped_dates", res.DroppedDates),
	)

	run := &runlogdomain.ReportRun{
		ID:                uuid.New().String(),
		AsOf:              asOf,
		StartedAt:         started,
		CompletedAt:       s.now().UTC(),
		HistoryRows:       len(res.History),
		QualificationRows: len(res.Qualification),
		NeverRows:         len(res.NeverSignedOff),
		RiskRows:          len(res.Risk),
		DroppedDimension:  res.DroppedDimension,
		DroppedDates:      res.DroppedDates,
	}
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			log.Printf("report: runlog write failed: %v", err)
		}
	}
	s.emitAsync(run)

	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
	return run, nil
}

// emitAsync publishes the run record in a goroutine so the caller is not
// blocked. A background context with a short timeout is used so request
// cancellation does not abort an in-flight emit.
func (s *Service) emitAsync(run *runlogdomain.ReportRun) {
	if s.emitter == nil || run == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := s.emitter.EmitRun(emitCtx, run); err != nil {
			log.Printf("report: async run emit failed: %v", err)
		}
	}()
}

// Query holds the dashboard's list filters. Zero values mean "no filter";
// Limit 0 means no page cap.
type Query struct {
	ContractID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// matches applies the contract-id and date-range filters to one row's keys.
func (q Query) matches(contractID string, at time.Time) bool {
	if q.ContractID != "" && contractID != q.ContractID {
		return false
	}
	if !q.From.IsZero() && at.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && at.After(q.To) {
		return false
	}
	return true
}

// page applies offset/limit to the filtered rows and returns the page plus the
// total filtered count for pagination.
func page[T any](rows []T, q Query) ([]T, int) {
	total := len(rows)
	if q.Offset >= total {
		return nil, total
	}
	rows = rows[q.Offset:]
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	return rows, total
}

// AsOf returns the pinned timestamp of the latest computed results, or false
// if no run has completed yet.
func (s *Service) AsOf() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return time.Time{}, false
	}
	return s.latest.AsOf, true
}

// History lists history-with-flag rows. The date filter applies to the signoff
// timestamp.
func (s *Service) History(q Query) ([]HistoryRow, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, 0
	}
	var filtered []HistoryRow
	for _, r := range s.latest.History {
		if q.matches(r.ContractID, r.SignoffAt) {
			filtered = append(filtered, r)
		}
	}
	return page(filtered, q)
}

// Qualification lists qualification-status rows. The date filter applies to
// the last signoff date.
func (s *Service) Qualification(q Query) ([]QualificationRow, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, 0
	}
	var filtered []QualificationRow
	for _, r := range s.latest.Qualification {
		if q.matches(r.ContractID, r.LastSignoffDate) {
			filtered = append(filtered, r)
		}
	}
	return page(filtered, q)
}

// NeverSignedOff lists never-signed-off rows. The date filter applies to the
// agreement end date, since these contracts have no signoff timestamp.
func (s *Service) NeverSignedOff(q Query) ([]NeverSignedOffRow, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, 0
	}
	var filtered []NeverSignedOffRow
	for _, r := range s.latest.NeverSignedOff {
		if q.matches(r.ContractID, r.AgreementEnd) {
			filtered = append(filtered, r)
		}
	}
	return page(filtered, q)
}

// Risk lists risk-bucket rows. The date filter applies to the last signoff date.
func (s *Service) Risk(q Query) ([]RiskRow, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, 0
	}
	var filtered []RiskRow
	for _, r := range s.latest.Risk {
		if q.matches(r.ContractID, r.LastSignoffDate) {
			filtered = append(filtered, r)
		}
	}
	return page(filtered, q)
}

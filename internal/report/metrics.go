package report

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the engine's OTel instruments. Dropped rows never fail a run;
// these counters are the only place they surface. A nil *Metrics disables
// recording.
type Metrics struct {
	runsTotal    metric.Int64Counter
	rowsTotal    metric.Int64Counter
	droppedTotal metric.Int64Counter
	runSeconds   metric.Float64Histogram
}

// NewMetrics creates the engine instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runs, err := meter.Int64Counter("signoff_report_runs_total",
		metric.WithDescription("Completed report pipeline runs"))
	if err != nil {
		return nil, err
	}
	rows, err := meter.Int64Counter("signoff_report_rows_total",
		metric.WithDescription("Output rows produced, by pipeline"))
	if err != nil {
		return nil, err
	}
	dropped, err := meter.Int64Counter("signoff_report_dropped_total",
		metric.WithDescription("Rows silently dropped, by reason"))
	if err != nil {
		return nil, err
	}
	seconds, err := meter.Float64Histogram("signoff_report_run_seconds",
		metric.WithDescription("Wall time of a full four-pipeline run"))
	if err != nil {
		return nil, err
	}
	return &Metrics{
		runsTotal:    runs,
		rowsTotal:    rows,
		droppedTotal: dropped,
		runSeconds:   seconds,
	}, nil
}

func (m *Metrics) recordRun(ctx context.Context, res *Results, seconds float64) {
	if m == nil {
		return
	}
	m.runsTotal.Add(ctx, 1)
	m.rowsTotal.Add(ctx, int64(len(res.History)),
		metric.WithAttributes(attribute.String("pipeline", "history")))
	m.rowsTotal.Add(ctx, int64(len(res.Qualification)),
		metric.WithAttributes(attribute.String("pipeline", "qualification")))
	m.rowsTotal.Add(ctx, int64(len(res.NeverSignedOff)),
		metric.WithAttributes(attribute.String("pipeline", "never_signed_off")))
	m.rowsTotal.Add(ctx, int64(len(res.Risk)),
		metric.WithAttributes(attribute.String("pipeline", "risk")))
	m.droppedTotal.Add(ctx, int64(res.DroppedDimension),
		metric.WithAttributes(attribute.String("reason", "dimension_mismatch")))
	m.droppedTotal.Add(ctx, int64(res.DroppedDates),
		metric.WithAttributes(attribute.String("reason", "missing_dates")))
	m.runSeconds.Record(ctx, seconds)
}

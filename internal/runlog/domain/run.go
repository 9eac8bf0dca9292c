package domain

import "time"

// ReportRun records one computation of the four report pipelines: the pinned
// as-of timestamp, timing, output row counts, and how many rows were silently
// dropped (missing dimension match, null or malformed agreement dates).
type ReportRun struct {
	ID                string
	AsOf              time.Time
	StartedAt         time.Time
	CompletedAt       time.Time
	HistoryRows       int
	QualificationRows int
	NeverRows         int
	RiskRows          int
	DroppedDimension  int
	DroppedDates      int
}

package report

import "time"

// Qualification status labels. The overdue override is unconditional: any
// resolved event older than overdueDays forces sign_off_overdue regardless of
// the method-derived base status.
const (
	StatusSignedOff         = "Signed off"
	StatusDeferredSignedOff = "Deferred Signed off"
	StatusOverdue           = "sign_off_overdue"
)

// Risk bucket labels, ordered.
const (
	RiskLow  = "a_low_risk"
	RiskMed  = "b_med_risk"
	RiskHigh = "c_high_risk"
)

const (
	overdueDays = 90
	lowRiskDays = 60
	medRiskDays = 90
)

// elapsedDays returns whole days between the event timestamp and the pinned
// as-of, truncated toward zero.
func elapsedDays(asOf, eventAt time.Time) int {
	return int(asOf.Sub(eventAt).Hours() / 24)
}

// qualificationStatus classifies a resolved event for the qualification
// pipeline. deferred selects the base status; elapsed over overdueDays
// overrides it unconditionally.
func qualificationStatus(deferred bool, elapsed int) string {
	if elapsed > overdueDays {
		return StatusOverdue
	}
	if deferred {
		return StatusDeferredSignedOff
	}
	return StatusSignedOff
}

// riskBucket classifies elapsed days into a risk bucket. Evaluation is
// top-down, first match wins: exactly 60 elapsed days hits the low bucket
// because that test runs first, even though the source ranges overlap at the
// boundary. Everything that fails both range tests falls through to high.
func riskBucket(elapsed int) string {
	switch {
	case elapsed >= 0 && elapsed <= lowRiskDays:
		return RiskLow
	case elapsed > lowRiskDays && elapsed <= medRiskDays:
		return RiskMed
	default:
		return RiskHigh
	}
}

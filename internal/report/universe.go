package report

import (
	"time"

	contractdomain "signoff-dashboard/backend/internal/contract/domain"
)

// The three eligibility windows are deliberately distinct per pipeline and are
// kept as three separate predicates. Do not unify them: the history and
// never-signed-off pipelines use a calendar-month grace, the qualification
// pipeline a 30-day grace, and the risk pipeline no grace at all but a
// minimum contract age instead.
const (
	historyGraceMonths     = 1
	qualificationGraceDays = 30
	riskMinAgeMonths       = 3
)

// dateOnly truncates a timestamp to its calendar date in UTC. Eligibility is
// date-granular: a contract ending 2024-06-30 with a 30-day grace is still
// eligible at any time on 2024-07-30.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// eligibleBase checks the conditions shared by every window: contract not
// deleted and both agreement dates present. Missing or malformed dates make
// the contract ineligible rather than failing the run.
func eligibleBase(c *contractdomain.BookingContract) bool {
	return !c.Deleted && c.HasAgreementDates()
}

// eligibleHistoryWindow reports whether the contract is in the evaluation
// window used by the history and never-signed-off pipelines:
// agreement_start <= as_of <= agreement_end + 1 calendar month.
func eligibleHistoryWindow(c *contractdomain.BookingContract, asOf time.Time) bool {
	if !eligibleBase(c) {
		return false
	}
	d := dateOnly(asOf)
	return !d.Before(dateOnly(c.AgreementStart)) &&
		!d.After(dateOnly(c.AgreementEnd).AddDate(0, historyGraceMonths, 0))
}

// eligibleQualificationWindow reports whether the contract is in the
// qualification pipeline's window:
// agreement_start <= as_of <= agreement_end + 30 days.
func eligibleQualificationWindow(c *contractdomain.BookingContract, asOf time.Time) bool {
	if !eligibleBase(c) {
		return false
	}
	d := dateOnly(asOf)
	return !d.Before(dateOnly(c.AgreementStart)) &&
		!d.After(dateOnly(c.AgreementEnd).AddDate(0, 0, qualificationGraceDays))
}

// eligibleRiskWindow reports whether the contract qualifies for the risk
// pipeline: no trailing grace, and the agreement must have started at least
// three months before as_of and not yet ended:
// agreement_start + 3 months <= as_of <= agreement_end.
func eligibleRiskWindow(c *contractdomain.BookingContract, asOf time.Time) bool {
	if !eligibleBase(c) {
		return false
	}
	d := dateOnly(asOf)
	return !d.Before(dateOnly(c.AgreementStart).AddDate(0, riskMinAgeMonths, 0)) &&
		!d.After(dateOnly(c.AgreementEnd))
}

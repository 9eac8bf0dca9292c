package report

import (
	"testing"
	"time"

	contractdomain "signoff-dashboard/backend/internal/contract/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeContract(start, end time.Time) *contractdomain.BookingContract {
	return &contractdomain.BookingContract{
		ID:             "c-1",
		AccountName:    "Acme",
		AgreementStart: start,
		AgreementEnd:   end,
	}
}

func TestEligibleQualificationWindow_GraceBoundary(t *testing.T) {
	// Contract ending 2024-06-30 has a 30-day grace ending 2024-07-30.
	c := activeContract(date(2024, 1, 1), date(2024, 6, 30))

	testCases := []struct {
		name string
		asOf time.Time
		want bool
	}{
		{"day before grace end", date(2024, 7, 29), true},
		{"grace end inclusive", date(2024, 7, 30), true},
		{"late on grace end day", time.Date(2024, 7, 30, 23, 59, 0, 0, time.UTC), true},
		{"day after grace end", date(2024, 7, 31), false},
		{"before agreement start", date(2023, 12, 31), false},
		{"agreement start inclusive", date(2024, 1, 1), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := eligibleQualificationWindow(c, tc.asOf)
			if got != tc.want {
				t.Errorf("eligibleQualificationWindow(asOf=%s) = %v, want %v", tc.asOf, got, tc.want)
			}
		})
	}
}

func TestEligibleHistoryWindow_CalendarMonthGrace(t *testing.T) {
	// The history window uses a calendar month, not 30 days: a contract
	// ending 2024-06-30 is eligible through 2024-07-30 here too, but one
	// ending 2024-01-31 runs through 2024-03-02 (Jan 31 + 1 month
	// normalizes past February).
	c := activeContract(date(2024, 1, 1), date(2024, 6, 30))
	if !eligibleHistoryWindow(c, date(2024, 7, 30)) {
		t.Error("contract should be eligible on the last day of the month grace")
	}
	if eligibleHistoryWindow(c, date(2024, 7, 31)) {
		t.Error("contract should not be eligible after the month grace")
	}

	january := activeContract(date(2023, 6, 1), date(2024, 1, 31))
	if !eligibleHistoryWindow(january, date(2024, 3, 2)) {
		t.Error("Jan 31 + 1 month normalizes to Mar 2; contract should be eligible")
	}
	if eligibleHistoryWindow(january, date(2024, 3, 3)) {
		t.Error("contract should not be eligible past the normalized month grace")
	}
}

func TestEligibleRiskWindow_MinimumAge(t *testing.T) {
	c := activeContract(date(2024, 1, 15), date(2024, 12, 31))

	testCases := []struct {
		name string
		asOf time.Time
		want bool
	}{
		{"too young", date(2024, 4, 14), false},
		{"exactly three months old", date(2024, 4, 15), true},
		{"mid-term", date(2024, 8, 1), true},
		{"agreement end inclusive", date(2024, 12, 31), true},
		{"after agreement end, no grace", date(2025, 1, 1), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := eligibleRiskWindow(c, tc.asOf)
			if got != tc.want {
				t.Errorf("eligibleRiskWindow(asOf=%s) = %v, want %v", tc.asOf, got, tc.want)
			}
		})
	}
}

func TestEligibility_DeletedContract(t *testing.T) {
	c := activeContract(date(2024, 1, 1), date(2024, 12, 31))
	c.Deleted = true
	asOf := date(2024, 6, 1)

	if eligibleHistoryWindow(c, asOf) {
		t.Error("deleted contract should not be eligible for the history window")
	}
	if eligibleQualificationWindow(c, asOf) {
		t.Error("deleted contract should not be eligible for the qualification window")
	}
	if eligibleRiskWindow(c, asOf) {
		t.Error("deleted contract should not be eligible for the risk window")
	}
}

func TestEligibility_MissingDates(t *testing.T) {
	asOf := date(2024, 6, 1)

	noStart := activeContract(time.Time{}, date(2024, 12, 31))
	noEnd := activeContract(date(2024, 1, 1), time.Time{})

	for name, c := range map[string]*contractdomain.BookingContract{
		"missing start": noStart,
		"missing end":   noEnd,
	} {
		if eligibleHistoryWindow(c, asOf) {
			t.Errorf("%s: contract should be ineligible, not an error", name)
		}
		if eligibleQualificationWindow(c, asOf) {
			t.Errorf("%s: contract should be ineligible, not an error", name)
		}
		if eligibleRiskWindow(c, asOf) {
			t.Errorf("%s: contract should be ineligible, not an error", name)
		}
	}
}

package report

import (
	contractdomain "signoff-dashboard/backend/internal/contract/domain"
)

// neverSignedOff anti-joins the eligible universe (history window) against the
// raw event store: contracts whose id appears in no event at all.
//
// The key set deliberately includes soft-deleted events, unlike every other
// pipeline: a contract whose only events were deleted is still "touched" and
// therefore excluded here. Preserve the asymmetry; do not filter on the
// deletion flag.
func neverSignedOff(s *Snapshot) []*contractdomain.BookingContract {
	touched := make(map[string]struct{}, len(s.Events))
	for _, e := range s.Events {
		touched[e.ContractID] = struct{}{}
	}

	var out []*contractdomain.BookingContract
	for _, c := range s.Contracts {
		if !eligibleHistoryWindow(c, s.AsOf) {
			continue
		}
		if _, ok := touched[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

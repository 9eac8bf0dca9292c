package report

import (
	"context"
	"sort"
	"sync"
	"time"

	contractdomain "signoff-dashboard/backend/internal/contract/domain"
	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
)

// HistoryRow is one event of an eligible contract's full signoff history,
// annotated with the is_last_signoff flag.
type HistoryRow struct {
	ContractID      string    `json:"contract_id"`
	AccountName     string    `json:"account_name"`
	BookingCountry  string    `json:"booking_country"`
	ServiceType     string    `json:"service_type"`
	BuyingProgram   string    `json:"buying_program"`
	Theater         string    `json:"theater"`
	PricingModel    string    `json:"pricing_model"`
	SoftwareAmount  float64   `json:"software_amount"`
	HardwareAmount  float64   `json:"hardware_amount"`
	EngagementName  string    `json:"engagement_name,omitempty"`
	SignoffMethod   string    `json:"signoff_method"`
	SignoffIdentity string    `json:"signoff_identity"`
	DeferReason     string    `json:"defer_reason,omitempty"`
	SignoffAt       time.Time `json:"signoff_at"`
	SignoffUserID   string    `json:"signoff_user_id"`
	IsLastSignoff   bool      `json:"is_last_signoff"`
	Attribution
}

// QualificationRow is the collapsed latest-event status of an eligible contract.
type QualificationRow struct {
	ContractID           string    `json:"contract_id"`
	AccountName          string    `json:"account_name"`
	ServiceType          string    `json:"service_type"`
	BuyingProgram        string    `json:"buying_program"`
	Theater              string    `json:"theater"`
	PricingModel         string    `json:"pricing_model"`
	QualifiedIBV         string    `json:"qualified_ibv"`
	DaysSinceLastSignoff int       `json:"days_since_last_signoff_event"`
	LastSignoffDate      time.Time `json:"last_signoff_date"`
}

// NeverSignedOffRow is a contract in the eligible universe with no signoff
// event at all, attributed through its responsible-user assignment.
type NeverSignedOffRow struct {
	ContractID        string    `json:"contract_id"`
	AccountName       string    `json:"account_name"`
	BookingCountry    string    `json:"booking_country"`
	ServiceType       string    `json:"service_type"`
	BuyingProgram     string    `json:"buying_program"`
	Theater           string    `json:"theater"`
	PricingModel      string    `json:"pricing_model"`
	AgreementStart    time.Time `json:"agreement_start"`
	AgreementEnd      time.Time `json:"agreement_end"`
	ResponsibleUserID string    `json:"responsible_user_id,omitempty"`
	Attribution
}

// RiskRow is the risk classification of an aged contract's latest non-deferred
// signoff.
type RiskRow struct {
	ContractID      string    `json:"contract_id"`
	AccountName     string    `json:"account_name"`
	ServiceType     string    `json:"service_type"`
	BuyingProgram   string    `json:"buying_program"`
	Theater         string    `json:"theater"`
	PricingModel    string    `json:"pricing_model"`
	SignoffDaysAgo  int       `json:"signoff_days_ago"`
	SignoffRisk     string    `json:"signoff_risk"`
	LastSignoffDate time.Time `json:"last_signoff_date"`
	Attribution
}

// Results holds the output of one full run over a snapshot, plus the silent
// drop counts surfaced for observability.
type Results struct {
	AsOf             time.Time
	History          []HistoryRow
	Qualification    []QualificationRow
	NeverSignedOff   []NeverSignedOffRow
	Risk             []RiskRow
	DroppedDimension int
	DroppedDates     int
}

// Engine computes the four report pipelines over a snapshot.
type Engine struct {
	deferredMethodID string
	orgDomain        string
	metrics          *Metrics
}

// NewEngine returns an Engine. deferredMethodID is the reserved method id for
// deferred signoffs; orgDomain is the hierarchy match suffix. metrics may be nil.
func NewEngine(deferredMethodID, orgDomain string, metrics *Metrics) *Engine {
	return &Engine{
		deferredMethodID: deferredMethodID,
		orgDomain:        orgDomain,
		metrics:          metrics,
	}
}

// Run computes all four pipelines against the snapshot. The pipelines are
// mutually independent and run concurrently; they share the snapshot read-only
// and write to separate result fields. Identical snapshots (including AsOf)
// produce identical results.
func (e *Engine) Run(ctx context.Context, s *Snapshot) *Results {
	started := time.Now()
	res := &Results{AsOf: s.AsOf}

	var (
		wg    sync.WaitGroup
		drops [4]dropCounts
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		res.History, drops[0] = e.buildHistory(s)
	}()
	go func() {
		defer wg.Done()
		res.Qualification, drops[1] = e.buildQualification(s)
	}()
	go func() {
		defer wg.Done()
		res.NeverSignedOff, drops[2] = e.buildNeverSignedOff(s)
	}()
	go func() {
		defer wg.Done()
		res.Risk, drops[3] = e.buildRisk(s)
	}()
	wg.Wait()

	for _, d := range drops {
		res.DroppedDimension += d.dimension
		res.DroppedDates += d.dates
	}
	e.metrics.recordRun(ctx, res, time.Since(started).Seconds())
	return res
}

// dropCounts tallies rows silently excluded by one pipeline.
type dropCounts struct {
	dimension int
	dates     int
}

// contractLabels are the dimension labels shared by every pipeline's output.
type contractLabels struct {
	serviceType   string
	buyingProgram string
	theater       string
	pricingModel  string
}

// contractDims inner-joins the contract against the four shared dimensions.
// A missing match drops the contract from the pipeline entirely; callers count
// the drop.
func contractDims(s *Snapshot, c *contractdomain.BookingContract) (contractLabels, bool) {
	serviceType, ok := s.Dimensions.ServiceTypes[c.ServiceTypeID]
	if !ok {
		return contractLabels{}, false
	}
	buyingProgram, ok := s.Dimensions.BuyingPrograms[c.BuyingProgramID]
	if !ok {
		return contractLabels{}, false
	}
	theater, ok := s.Dimensions.Theaters[c.TheaterID]
	if !ok {
		return contractLabels{}, false
	}
	pricingModel, ok := s.Dimensions.PricingModels[c.PricingModelID]
	if !ok {
		return contractLabels{}, false
	}
	return contractLabels{
		serviceType:   serviceType.Label,
		buyingProgram: buyingProgram.Label,
		theater:       theater.Label,
		pricingModel:  pricingModel.Label,
	}, true
}

// sortEventsDesc orders events by timestamp descending, then user id
// descending, so output order is deterministic across runs.
func sortEventsDesc(events []*signoffdomain.SignoffEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].UserID > events[j].UserID
	})
}

// buildHistory produces the history-with-flag pipeline: every non-deleted
// event of every eligible contract, flagged when it matches the policy-A
// winner resolved over the contract's non-deferred events.
func (e *Engine) buildHistory(s *Snapshot) ([]HistoryRow, dropCounts) {
	var (
		rows  []HistoryRow
		drops dropCounts
	)
	all := s.eventsByContract(e.deferredMethodID, true)
	nonDeferred := s.eventsByContract(e.deferredMethodID, false)
	resolver := newAttributionResolver(s, e.orgDomain)

	for _, c := range s.Contracts {
		if !c.Deleted && !c.HasAgreementDates() {
			drops.dates++
			continue
		}
		if !eligibleHistoryWindow(c, s.AsOf) {
			continue
		}
		labels, ok := contractDims(s, c)
		if !ok {
			drops.dimension++
			continue
		}
		events := all[c.ID]
		if len(events) == 0 {
			continue
		}
		win, hasWin := resolveAnnotated(nonDeferred[c.ID])
		sortEventsDesc(events)

		for _, ev := range events {
			method, ok := s.Dimensions.SignoffMethods[ev.MethodID]
			if !ok {
				drops.dimension++
				continue
			}
			identity, ok := s.Dimensions.SignoffIdentities[ev.IdentityID]
			if !ok {
				drops.dimension++
				continue
			}
			// Null keys are not joined: a non-deferred event has no defer
			// reason and must not be dropped for lacking one.
			deferReason := ""
			if ev.DeferReasonID != "" {
				d, ok := s.Dimensions.DeferReasons[ev.DeferReasonID]
				if !ok {
					drops.dimension++
					continue
				}
				deferReason = d.Label
			}
			engagement := ""
			if ev.EngagementID != "" {
				h, ok := s.Dimensions.EngagementHeaders[ev.EngagementID]
				if !ok {
					drops.dimension++
					continue
				}
				engagement = h.Label
			}

			rows = append(rows, HistoryRow{
				ContractID:      c.ID,
				AccountName:     c.AccountName,
				BookingCountry:  c.BookingCountry,
				ServiceType:     labels.serviceType,
				BuyingProgram:   labels.buyingProgram,
				Theater:         labels.theater,
				PricingModel:    labels.pricingModel,
				SoftwareAmount:  c.SoftwareAmount,
				HardwareAmount:  c.HardwareAmount,
				EngagementName:  engagement,
				SignoffMethod:   method.Label,
				SignoffIdentity: identity.Label,
				DeferReason:     deferReason,
				SignoffAt:       ev.CreatedAt,
				SignoffUserID:   ev.UserID,
				IsLastSignoff:   hasWin && win.isLatest(ev),
				Attribution:     resolver.resolve(ev.UserID),
			})
		}
	}
	return rows, drops
}

// buildQualification produces the qualification-status pipeline: one contract
// collapsed to its latest event across all methods, classified, with tie
// fan-out preserved.
func (e *Engine) buildQualification(s *Snapshot) ([]QualificationRow, dropCounts) {
	var (
		rows  []QualificationRow
		drops dropCounts
	)
	all := s.eventsByContract(e.deferredMethodID, true)

	for _, c := range s.Contracts {
		if !c.Deleted && !c.HasAgreementDates() {
			drops.dates++
			continue
		}
		if !eligibleQualificationWindow(c, s.AsOf) {
			continue
		}
		labels, ok := contractDims(s, c)
		if !ok {
			drops.dimension++
			continue
		}
		latest := resolveCollapsed(all[c.ID])
		if len(latest) == 0 {
			continue
		}
		sortEventsDesc(latest)

		for _, ev := range latest {
			elapsed := elapsedDays(s.AsOf, ev.CreatedAt)
			rows = append(rows, QualificationRow{
				ContractID:           c.ID,
				AccountName:          c.AccountName,
				ServiceType:          labels.serviceType,
				BuyingProgram:        labels.buyingProgram,
				Theater:              labels.theater,
				PricingModel:         labels.pricingModel,
				QualifiedIBV:         qualificationStatus(ev.IsDeferred(e.deferredMethodID), elapsed),
				DaysSinceLastSignoff: elapsed,
				LastSignoffDate:      ev.CreatedAt,
			})
		}
	}
	return rows, drops
}

// buildNeverSignedOff produces the never-signed-off pipeline: the anti-join
// result attributed through responsible-user assignments. A contract with no
// assignment is still reported, carrying the sentinel attribution.
func (e *Engine) buildNeverSignedOff(s *Snapshot) ([]NeverSignedOffRow, dropCounts) {
	var (
		rows  []NeverSignedOffRow
		drops dropCounts
	)
	resolver := newAttributionResolver(s, e.orgDomain)

	assignments := make(map[string][]*signoffdomain.ResponsibleUserAssignment)
	for _, a := range s.Assignments {
		if a.Deleted {
			continue
		}
		assignments[a.ContractID] = append(assignments[a.ContractID], a)
	}

	for _, c := range s.Contracts {
		if !c.Deleted && !c.HasAgreementDates() {
			drops.dates++
		}
	}
	for _, c := range neverSignedOff(s) {
		labels, ok := contractDims(s, c)
		if !ok {
			drops.dimension++
			continue
		}
		base := NeverSignedOffRow{
			ContractID:     c.ID,
			AccountName:    c.AccountName,
			BookingCountry: c.BookingCountry,
			ServiceType:    labels.serviceType,
			BuyingProgram:  labels.buyingProgram,
			Theater:        labels.theater,
			PricingModel:   labels.pricingModel,
			AgreementStart: c.AgreementStart,
			AgreementEnd:   c.AgreementEnd,
		}
		assigned := assignments[c.ID]
		if len(assigned) == 0 {
			row := base
			row.Attribution = sentinelAttribution
			rows = append(rows, row)
			continue
		}
		for _, a := range assigned {
			row := base
			row.ResponsibleUserID = a.UserID
			row.Attribution = resolver.resolve(a.UserID)
			rows = append(rows, row)
		}
	}
	return rows, drops
}

// buildRisk produces the risk pipeline: aged contracts collapsed to their
// latest non-deferred event and bucketed by elapsed days. Contracts with no
// qualifying event are absent. Attribution comes from the responsible-user
// assignment, falling back to the sentinel.
func (e *Engine) buildRisk(s *Snapshot) ([]RiskRow, dropCounts) {
	var (
		rows  []RiskRow
		drops dropCounts
	)
	nonDeferred := s.eventsByContract(e.deferredMethodID, false)
	resolver := newAttributionResolver(s, e.orgDomain)

	assignee := make(map[string]string)
	for _, a := range s.Assignments {
		if a.Deleted {
			continue
		}
		if _, ok := assignee[a.ContractID]; !ok {
			assignee[a.ContractID] = a.UserID
		}
	}

	for _, c := range s.Contracts {
		if !c.Deleted && !c.HasAgreementDates() {
			drops.dates++
			continue
		}
		if !eligibleRiskWindow(c, s.AsOf) {
			continue
		}
		labels, ok := contractDims(s, c)
		if !ok {
			drops.dimension++
			continue
		}
		latest := resolveCollapsed(nonDeferred[c.ID])
		if len(latest) == 0 {
			continue
		}
		sortEventsDesc(latest)

		attribution := sentinelAttribution
		if userID, ok := assignee[c.ID]; ok {
			attribution = resolver.resolve(userID)
		}
		for _, ev := range latest {
			elapsed := elapsedDays(s.AsOf, ev.CreatedAt)
			rows = append(rows, RiskRow{
				ContractID:      c.ID,
				AccountName:     c.AccountName,
				ServiceType:     labels.serviceType,
				BuyingProgram:   labels.buyingProgram,
				Theater:         labels.theater,
				PricingModel:    labels.pricingModel,
				SignoffDaysAgo:  elapsed,
				SignoffRisk:     riskBucket(elapsed),
				LastSignoffDate: ev.CreatedAt,
				Attribution:     attribution,
			})
		}
	}
	return rows, drops
}

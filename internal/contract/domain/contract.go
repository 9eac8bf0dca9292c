package domain

import (
	"errors"
	"time"
)

// BookingContract is the agreement entity under compliance evaluation.
// Owned by the external contracts system; read-only here. AgreementStart and
// AgreementEnd are date-granular; a zero value means the source date was null
// or malformed, which makes the contract ineligible for every pipeline.
type BookingContract struct {
	ID              string
	AccountName     string
	BookingCountry  string
	TheaterID       string
	ServiceTypeID   string
	BuyingProgramID string
	PricingModelID  string
	SoftwareAmount  float64
	HardwareAmount  float64
	AgreementStart  time.Time
	AgreementEnd    time.Time
	Deleted         bool
}

// Validate validates the contract for persistence. Returns an error describing the first validation failure.
func (c *BookingContract) Validate() error {
	if c.ID == "" {
		return errors.New("contract id is required")
	}
	if c.AccountName == "" {
		return errors.New("account name is required")
	}
	return nil
}

// HasAgreementDates reports whether both agreement dates are present.
// Contracts with missing dates are excluded from eligibility, not rejected.
func (c *BookingContract) HasAgreementDates() bool {
	return !c.AgreementStart.IsZero() && !c.AgreementEnd.IsZero()
}

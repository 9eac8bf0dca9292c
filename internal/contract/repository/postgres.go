package repository

import (
	"context"
	"database/sql"
	"errors"

	"signoff-dashboard/backend/internal/contract/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a contract repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const contractColumns = `id, account_name, booking_country, theater_id, service_type_id,
	buying_program_id, pricing_model_id, software_amount, hardware_amount,
	agreement_start, agreement_end, deleted`

// GetByID returns the contract for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.BookingContract, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+` FROM booking_contracts WHERE id = $1`, id)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// List returns all contracts, including soft-deleted ones.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.BookingContract, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contractColumns+` FROM booking_contracts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.BookingContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create persists the contract. The contract must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.BookingContract) error {
	start := sql.NullTime{Time: c.AgreementStart, Valid: !c.AgreementStart.IsZero()}
	end := sql.NullTime{Time: c.AgreementEnd, Valid: !c.AgreementEnd.IsZero()}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO booking_contracts (id, account_name, booking_country, theater_id,
			service_type_id, buying_program_id, pricing_model_id, software_amount,
			hardware_amount, agreement_start, agreement_end, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.AccountName, c.BookingCountry, c.TheaterID, c.ServiceTypeID,
		c.BuyingProgramID, c.PricingModelID, c.SoftwareAmount, c.HardwareAmount,
		start, end, c.Deleted)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*domain.BookingContract, error) {
	var c domain.BookingContract
	var start, end sql.NullTime
	if err := row.Scan(&c.ID, &c.AccountName, &c.BookingCountry, &c.TheaterID,
		&c.ServiceTypeID, &c.BuyingProgramID, &c.PricingModelID, &c.SoftwareAmount,
		&c.HardwareAmount, &start, &end, &c.Deleted); err != nil {
		return nil, err
	}
	if start.Valid {
		c.AgreementStart = start.Time
	}
	if end.Valid {
		c.AgreementEnd = end.Time
	}
	return &c, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"signoff-dashboard/backend/internal/refdata/domain"
)

// Dimension table names. Upsert only accepts these.
const (
	TableSignoffMethods    = "signoff_methods"
	TableSignoffIdentities = "signoff_identities"
	TableDeferReasons      = "defer_signoff_reasons"
	TableServiceTypes      = "service_types"
	TableBuyingPrograms    = "buying_programs"
	TableTheaters          = "theaters"
	TablePricingModels     = "pricing_models"
	TableEngagementHeaders = "engagement_headers"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a refdata repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// LoadSet reads every dimension table into one immutable Set.
func (r *PostgresRepository) LoadSet(ctx context.Context) (*domain.Set, error) {
	set := domain.NewSet()
	targets := []struct {
		table string
		dest  map[string]domain.Dimension
	}{
		{TableSignoffMethods, set.SignoffMethods},
		{TableSignoffIdentities, set.SignoffIdentities},
		{TableDeferReasons, set.DeferReasons},
		{TableServiceTypes, set.ServiceTypes},
		{TableBuyingPrograms, set.BuyingPrograms},
		{TableTheaters, set.Theaters},
		{TablePricingModels, set.PricingModels},
		{TableEngagementHeaders, set.EngagementHeaders},
	}
	for _, target := range targets {
		if err := r.loadTable(ctx, target.table, target.dest); err != nil {
			return nil, fmt.Errorf("refdata: load %s: %w", target.table, err)
		}
	}
	return set, nil
}

func (r *PostgresRepository) loadTable(ctx context.Context, table string, dest map[string]domain.Dimension) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id, `+labelColumn(table)+` FROM `+table)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Dimension
		if err := rows.Scan(&d.ID, &d.Label); err != nil {
			return err
		}
		dest[d.ID] = d
	}
	return rows.Err()
}

// Upsert writes a dimension row into the named table. table must be one of the
// Table* constants; anything else is rejected.
func (r *PostgresRepository) Upsert(ctx context.Context, table string, d domain.Dimension) error {
	if !validTable(table) {
		return fmt.Errorf("refdata: unknown dimension table %q", table)
	}
	col := labelColumn(table)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, `+col+`) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET `+col+` = EXCLUDED.`+col,
		d.ID, d.Label)
	return err
}

func validTable(table string) bool {
	switch table {
	case TableSignoffMethods, TableSignoffIdentities, TableDeferReasons,
		TableServiceTypes, TableBuyingPrograms, TableTheaters,
		TablePricingModels, TableEngagementHeaders:
		return true
	}
	return false
}

// labelColumn returns the display column for a dimension table. Engagement
// headers carry a name instead of a label.
func labelColumn(table string) string {
	if table == TableEngagementHeaders {
		return "name"
	}
	return "label"
}

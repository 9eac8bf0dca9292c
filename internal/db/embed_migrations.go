package db

import "embed"

// MigrationFS embeds the signoff schema migrations from
// internal/db/migrations: the eight dimension tables, booking contracts,
// signoff events and assignments, users and org hierarchy, and report runs.
// Applied by the migrate runner (cmd/migrate).
//
//go:embed migrations/*.sql
var MigrationFS embed.FS

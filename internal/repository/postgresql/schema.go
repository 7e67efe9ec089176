package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/usermanager/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		seq         BIGSERIAL UNIQUE,
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL,
		mobile      TEXT NOT NULL,
		designation TEXT NOT NULL DEFAULT '',
		gender      TEXT NOT NULL DEFAULT '',
		course      TEXT NOT NULL DEFAULT '',
		image_path  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS employees_created_at_idx ON employees (created_at, seq)`,
}

// EnsureSchema creates the tables the repositories need when they are missing.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS review_states (
		user_id        BIGINT NOT NULL,
		word_id        TEXT NOT NULL,
		category       TEXT NOT NULL,
		level          TEXT NOT NULL,
		rank           INT NOT NULL DEFAULT 0,
		next_review_at TIMESTAMPTZ NOT NULL,
		last_reviewed_at TIMESTAMPTZ,
		PRIMARY KEY (user_id, word_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_states_due
		ON review_states (user_id, next_review_at)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id           BIGINT PRIMARY KEY,
		reminders_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		level_filter      TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id       TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		level    TEXT NOT NULL,
		payload  JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema. Every statement is idempotent, so repeated
// startups are no-ops.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

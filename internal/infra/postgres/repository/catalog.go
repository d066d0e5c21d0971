package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/infra/postgres"
)

const catalogInitializedKey = "catalog_initialized"

// TxRunner runs a function inside one transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// CatalogRepository snapshots the vocabulary catalog into the database so
// review state rows always have a word to join against, even if the asset
// file changes between releases.
type CatalogRepository struct {
	db postgres.DBTX
	tx TxRunner
}

// NewCatalogRepository creates a CatalogRepository with the provided
// database pool and transactor.
func NewCatalogRepository(db postgres.DBTX, tx TxRunner) *CatalogRepository {
	return &CatalogRepository{db: db, tx: tx}
}

// EnsureSnapshot writes the catalog snapshot once: the sentinel row marks a
// completed run and later startups skip the write entirely. Returns whether
// a snapshot was written.
func (r *CatalogRepository) EnsureSnapshot(ctx context.Context, words []*entities.Word) (bool, error) {
	done, err := r.Initialized(ctx)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	if err := r.snapshot(ctx, words); err != nil {
		return false, err
	}
	return true, nil
}

// Initialized reports whether a catalog snapshot has already been taken.
func (r *CatalogRepository) Initialized(ctx context.Context) (bool, error) {
	query := `SELECT value FROM catalog_meta WHERE key = $1`

	var value string
	err := r.db.QueryRow(ctx, query, catalogInitializedKey).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check catalog sentinel: %w", err)
	}

	return value == "true", nil
}

// snapshot upserts every catalog word and records the sentinel in a single
// transaction, so a crash mid-write leaves no sentinel and the next startup
// retries.
func (r *CatalogRepository) snapshot(ctx context.Context, words []*entities.Word) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO words (id, category, level, payload)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				category = EXCLUDED.category,
				level = EXCLUDED.level,
				payload = EXCLUDED.payload
		`

		for _, w := range words {
			payload, err := json.Marshal(w)
			if err != nil {
				return fmt.Errorf("marshal word %s: %w", w.ID, err)
			}

			if _, err := tx.Exec(ctx, query, w.ID, string(w.Category), w.Level, payload); err != nil {
				return fmt.Errorf("upsert word %s: %w", w.ID, err)
			}
		}

		sentinel := `
			INSERT INTO catalog_meta (key, value)
			VALUES ($1, 'true')
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`
		if _, err := tx.Exec(ctx, sentinel, catalogInitializedKey); err != nil {
			return fmt.Errorf("record catalog sentinel: %w", err)
		}

		return nil
	})
}

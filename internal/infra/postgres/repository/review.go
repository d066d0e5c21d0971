package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/infra/postgres"
)

// ErrMalformedState marks persisted review rows that cannot be decoded into
// a ReviewState. Callers rebuild from the catalog on this error; any other
// LoadAll error (connection, query) leaves the stored progress alone.
var ErrMalformedState = errors.New("malformed review state")

// ReviewRepository persists per-user review state in the database.
type ReviewRepository struct {
	db postgres.DBTX
}

// NewReviewRepository creates a ReviewRepository with the provided database
// pool.
func NewReviewRepository(db postgres.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// LoadAll returns the user's full review-state mapping keyed by word id.
func (r *ReviewRepository) LoadAll(ctx context.Context, userID int64) (map[string]*entities.ReviewState, error) {
	query := `
		SELECT user_id, word_id, category, level, rank, next_review_at, last_reviewed_at
		FROM review_states
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load review states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]*entities.ReviewState)
	for rows.Next() {
		var st entities.ReviewState
		var category string
		if err := rows.Scan(
			&st.UserID,
			&st.WordID,
			&category,
			&st.Level,
			&st.Rank,
			&st.NextReviewAt,
			&st.LastReviewedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrMalformedState, err)
		}
		st.Category = entities.Category(category)
		if !st.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q for word %s", ErrMalformedState, category, st.WordID)
		}
		states[st.WordID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review states: %w", err)
	}

	return states, nil
}

// Upsert creates or updates a review state. Called after every scheduler
// mutation; timestamps round-trip as timestamptz.
func (r *ReviewRepository) Upsert(ctx context.Context, st *entities.ReviewState) error {
	query := `
		INSERT INTO review_states (
			user_id, word_id, category, level, rank, next_review_at, last_reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			category = EXCLUDED.category,
			level = EXCLUDED.level,
			rank = EXCLUDED.rank,
			next_review_at = EXCLUDED.next_review_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at
	`

	_, err := r.db.Exec(
		ctx,
		query,
		st.UserID,
		st.WordID,
		string(st.Category),
		st.Level,
		st.Rank,
		st.NextReviewAt,
		st.LastReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert review state: %w", err)
	}

	return nil
}

// Reset deletes every review state of the user.
func (r *ReviewRepository) Reset(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM review_states WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("reset review states: %w", err)
	}
	return nil
}

// ListDueCounts returns, for every user with reminders enabled, how many
// words are due at the given time. Users without a due word are omitted.
func (r *ReviewRepository) ListDueCounts(ctx context.Context, now time.Time) ([]entities.UserDueCount, error) {
	query := `
		SELECT rs.user_id, COUNT(*)
		FROM review_states rs
		JOIN user_settings us ON us.user_id = rs.user_id
		WHERE us.reminders_enabled AND rs.next_review_at <= $1
		GROUP BY rs.user_id
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list due counts: %w", err)
	}
	defer rows.Close()

	var counts []entities.UserDueCount
	for rows.Next() {
		var c entities.UserDueCount
		if err := rows.Scan(&c.UserID, &c.Due); err != nil {
			return nil, fmt.Errorf("scan due count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due counts: %w", err)
	}

	return counts, nil
}

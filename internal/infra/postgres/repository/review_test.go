package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
)

// fakeRows embeds pgx.Rows for the interface; LoadAll only calls Next, Scan,
// Err and Close.
type fakeRows struct {
	pgx.Rows
	rows    [][]any // user_id, word_id, category, level, rank, next_review_at
	idx     int
	scanErr error
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.idx-1]
	*(dest[0].(*int64)) = row[0].(int64)
	*(dest[1].(*string)) = row[1].(string)
	*(dest[2].(*string)) = row[2].(string)
	*(dest[3].(*string)) = row[3].(string)
	*(dest[4].(*int)) = row[4].(int)
	*(dest[5].(*time.Time)) = row[5].(time.Time)
	return nil
}

type rowsDB struct {
	fakeDB
	rows     pgx.Rows
	queryErr error
}

func (d *rowsDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return d.rows, nil
}

func TestLoadAllRoundTrip(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &rowsDB{rows: &fakeRows{rows: [][]any{
		{int64(7), "noun-haus", "nouns", "A1", 2, due},
	}}}
	repo := NewReviewRepository(db)

	states, err := repo.LoadAll(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, states, 1)

	st := states["noun-haus"]
	assert.Equal(t, entities.CategoryNoun, st.Category)
	assert.Equal(t, 2, st.Rank)
	assert.Equal(t, due, st.NextReviewAt)
}

func TestLoadAllUnknownCategoryIsMalformed(t *testing.T) {
	db := &rowsDB{rows: &fakeRows{rows: [][]any{
		{int64(7), "noun-haus", "adjektive", "A1", 2, time.Now()},
	}}}
	repo := NewReviewRepository(db)

	_, err := repo.LoadAll(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMalformedState)
}

func TestLoadAllScanFailureIsMalformed(t *testing.T) {
	db := &rowsDB{rows: &fakeRows{
		rows:    [][]any{{int64(7), "noun-haus", "nouns", "A1", 2, time.Now()}},
		scanErr: assert.AnError,
	}}
	repo := NewReviewRepository(db)

	_, err := repo.LoadAll(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMalformedState)
}

func TestLoadAllQueryFailureIsNotMalformed(t *testing.T) {
	db := &rowsDB{queryErr: assert.AnError}
	repo := NewReviewRepository(db)

	_, err := repo.LoadAll(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedState)
}

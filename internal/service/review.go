package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/infra/postgres/repository"
)

// ReviewService owns the review-state set: it reconciles it against the
// catalog, persists every mutation and answers due-count queries.
type ReviewService struct {
	vocab      VocabularyRepo
	reviewRepo ReviewRepository
	logger     *zap.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(vocab VocabularyRepo, reviewRepo ReviewRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		vocab:      vocab,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// EnsureStates loads the user's review states and reconciles them against
// the catalog: every catalog word gets a state (rank 0, due immediately) and
// drifted denormalized fields are re-synced. Malformed persisted state is
// treated as a first run: the set is rebuilt from the catalog. Any other
// load failure (a transient connection error, say) is returned instead, so
// healthy stored progress is never overwritten with rank-0 rows.
// Orphaned states (words removed from the catalog) are kept in the returned
// map; pool selection resolves and skips them.
func (s *ReviewService) EnsureStates(ctx context.Context, userID int64) (map[string]*entities.ReviewState, error) {
	states, err := s.reviewRepo.LoadAll(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrMalformedState) {
			return nil, fmt.Errorf("load review states: %w", err)
		}
		s.logger.Warn("malformed review state, rebuilding from catalog",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		states = make(map[string]*entities.ReviewState)
	}

	now := time.Now()
	for _, w := range s.vocab.All() {
		st, ok := states[w.ID]
		if !ok {
			st = entities.NewReviewState(userID, w, now)
			if err := s.reviewRepo.Upsert(ctx, st); err != nil {
				return nil, fmt.Errorf("create review state for %s: %w", w.ID, err)
			}
			states[w.ID] = st
			continue
		}

		if st.Category != w.Category || st.Level != w.Level {
			st.Category = w.Category
			st.Level = w.Level
			if err := s.reviewRepo.Upsert(ctx, st); err != nil {
				return nil, fmt.Errorf("sync review state for %s: %w", w.ID, err)
			}
		}
	}

	return states, nil
}

// Save persists one mutated review state.
func (s *ReviewService) Save(ctx context.Context, state *entities.ReviewState) error {
	return s.reviewRepo.Upsert(ctx, state)
}

// DueCount returns the number of words currently due for the user, for the
// dashboard badge. Counted over the reconciled set so brand-new users see the
// full catalog as due.
func (s *ReviewService) DueCount(ctx context.Context, userID int64) (int, error) {
	states, err := s.EnsureStates(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	count := 0
	for _, st := range states {
		if _, err := s.vocab.GetByID(st.WordID); err != nil {
			continue // orphan
		}
		if st.Due(now) {
			count++
		}
	}
	return count, nil
}

// ProgressSummary aggregates a user's standing across the catalog.
type ProgressSummary struct {
	Total    int
	Due      int
	New      int // rank 0
	Learning int // rank 1-3
	Mastered int // rank 4+
}

// Summary computes the per-rank breakdown for the progress view.
func (s *ReviewService) Summary(ctx context.Context, userID int64) (*ProgressSummary, error) {
	states, err := s.EnsureStates(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := &ProgressSummary{}
	for _, st := range states {
		if _, err := s.vocab.GetByID(st.WordID); err != nil {
			continue // orphan
		}
		summary.Total++
		if st.Due(now) {
			summary.Due++
		}
		switch {
		case st.Rank == 0:
			summary.New++
		case st.Rank < 4:
			summary.Learning++
		default:
			summary.Mastered++
		}
	}
	return summary, nil
}

// Reset wipes the user's review history; the next EnsureStates rebuilds it
// from the catalog as a first run.
func (s *ReviewService) Reset(ctx context.Context, userID int64) error {
	if err := s.reviewRepo.Reset(ctx, userID); err != nil {
		return fmt.Errorf("reset review states: %w", err)
	}
	s.logger.Info("review states reset", zap.Int64("user_id", userID))
	return nil
}

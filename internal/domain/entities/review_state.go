package entities

import "time"

// reviewDelayHours maps a repetition rank to the delay before the next
// review. Ranks beyond the table fall back to two weeks.
var reviewDelayHours = []int{0, 4, 8, 24, 72, 168}

const fallbackDelayHours = 336

const (
	knownRank      = 4
	knownDelayDays = 30
)

// ReviewState tracks how well a user knows a single word and when it is due
// for review. One state exists per (user, word); Category and Level are
// denormalized from the catalog so due pools can be filtered without
// resolving every word.
type ReviewState struct {
	UserID   int64
	WordID   string
	Category Category
	Level    string

	Rank           int        // non-negative, tracks recent performance
	NextReviewAt   time.Time  // rank 0 means due immediately
	LastReviewedAt *time.Time // nil until the first answer
}

// NewReviewState creates the initial state for a word: rank 0, due now.
func NewReviewState(userID int64, w *Word, now time.Time) *ReviewState {
	return &ReviewState{
		UserID:       userID,
		WordID:       w.ID,
		Category:     w.Category,
		Level:        w.Level,
		NextReviewAt: now,
	}
}

// ApplyReview updates the state after an answer. Correct answers advance the
// rank by one; incorrect answers regress it by two, clamped at zero, so
// failures come back for review sooner than successes advance. The next due
// time is looked up from the delay table; any rank is handled, ranks past the
// table use the fallback delay.
func (s *ReviewState) ApplyReview(correct bool, now time.Time) {
	if correct {
		s.Rank++
	} else {
		s.Rank -= 2
		if s.Rank < 0 {
			s.Rank = 0
		}
	}

	s.NextReviewAt = now.Add(delayForRank(s.Rank))
	s.LastReviewedAt = &now
}

// MarkKnown short-circuits the delay table when the user asserts mastery
// without being quizzed: rank 4, due in thirty days.
func (s *ReviewState) MarkKnown(now time.Time) {
	s.Rank = knownRank
	s.NextReviewAt = now.AddDate(0, 0, knownDelayDays)
	s.LastReviewedAt = &now
}

// Due reports whether the word should be offered for review at the given time.
func (s *ReviewState) Due(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}

func delayForRank(rank int) time.Duration {
	hours := fallbackDelayHours
	if rank < len(reviewDelayHours) {
		hours = reviewDelayHours[rank]
	}
	return time.Duration(hours) * time.Hour
}

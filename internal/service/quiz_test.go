package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
)

type fakeVocab struct {
	words map[string]*entities.Word
}

func (f *fakeVocab) GetByID(id string) (*entities.Word, error) {
	w, ok := f.words[id]
	if !ok {
		return nil, fmt.Errorf("word %s not found", id)
	}
	return w, nil
}

func (f *fakeVocab) All() []*entities.Word {
	out := make([]*entities.Word, 0, len(f.words))
	for _, w := range f.words {
		out = append(out, w)
	}
	return out
}

type fakeReviews struct {
	states map[string]*entities.ReviewState
	saved  []*entities.ReviewState
}

func (f *fakeReviews) EnsureStates(_ context.Context, _ int64) (map[string]*entities.ReviewState, error) {
	return f.states, nil
}

func (f *fakeReviews) Save(_ context.Context, st *entities.ReviewState) error {
	f.saved = append(f.saved, st)
	return nil
}

func nounHaus() *entities.Word {
	return &entities.Word{
		ID:       "noun-haus",
		Category: entities.CategoryNoun,
		Level:    entities.LevelA1,
		English:  "house",
		Noun:     "Haus",
		Article:  "das",
		Plural:   "Häuser",
	}
}

func verbMachen() *entities.Word {
	return &entities.Word{
		ID:         "verb-machen",
		Category:   entities.CategoryVerb,
		Level:      entities.LevelA1,
		English:    "to do",
		Infinitive: "machen",
		VerbType:   "regular",
		Conjugation: map[string]string{
			"ich": "mache",
			"du":  "machst",
		},
	}
}

func dueState(userID int64, w *entities.Word) *entities.ReviewState {
	return entities.NewReviewState(userID, w, time.Now().Add(-time.Hour))
}

func newTestQuizService(vocab *fakeVocab, reviews *fakeReviews) *QuizService {
	rng := rand.New(rand.NewSource(1))
	return NewQuizService(vocab, reviews, rng, zap.NewNop())
}

func TestStartSessionEmptyPool(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"verb-machen": verbMachen()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"verb-machen": dueState(7, verbMachen()),
	}}
	svc := newTestQuizService(vocab, reviews)

	_, err := svc.StartSession(context.Background(), 7, entities.ModeNounDrill, entities.SessionFilter{})
	assert.ErrorIs(t, err, ErrEmptyPool)
	assert.Nil(t, svc.ActiveSession(7))
}

func TestStartSessionLevelFilter(t *testing.T) {
	a2 := nounHaus()
	a2.ID = "noun-wohnung"
	a2.Level = entities.LevelA2

	vocab := &fakeVocab{words: map[string]*entities.Word{
		"noun-haus":    nounHaus(),
		"noun-wohnung": a2,
	}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus":    dueState(7, nounHaus()),
		"noun-wohnung": dueState(7, a2),
	}}
	svc := newTestQuizService(vocab, reviews)

	session, err := svc.StartSession(context.Background(), 7, entities.ModeNounDrill, entities.SessionFilter{Level: entities.LevelA1})
	require.NoError(t, err)
	require.Len(t, session.Queue, 1)
	assert.Equal(t, "noun-haus", session.Queue[0].WordID)
}

func TestNounDrillAnswerFlow(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus": dueState(7, nounHaus()),
	}}
	svc := newTestQuizService(vocab, reviews)

	_, err := svc.StartSession(context.Background(), 7, entities.ModeNounDrill, entities.SessionFilter{})
	require.NoError(t, err)

	q, summary, err := svc.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, summary)
	assert.Equal(t, entities.QuestionNounGender, q.Kind)
	assert.Equal(t, []string{"der", "die", "das"}, q.Options)

	res, err := svc.SubmitAnswer(context.Background(), 7, "das")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "das Haus", res.CorrectAnswer)
	assert.Equal(t, 1, res.Rank)

	// The answered state was persisted with the four-hour delay.
	require.Len(t, reviews.saved, 1)
	saved := reviews.saved[0]
	assert.Equal(t, 1, saved.Rank)
	assert.WithinDuration(t, time.Now().Add(4*time.Hour), saved.NextReviewAt, time.Minute)

	// Submitting does not advance; the same question is still current.
	again, summary, err := svc.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, summary)
	assert.Same(t, q, again)

	summary, err = svc.Advance(7)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Answered)
	assert.Equal(t, 1, summary.Correct)
	assert.Nil(t, svc.ActiveSession(7))
}

func TestWrongAnswerCounted(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus": dueState(7, nounHaus()),
	}}
	svc := newTestQuizService(vocab, reviews)

	_, err := svc.StartSession(context.Background(), 7, entities.ModeNounDrill, entities.SessionFilter{})
	require.NoError(t, err)

	_, _, err = svc.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)

	res, err := svc.SubmitAnswer(context.Background(), 7, "der")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, 0, res.Rank)

	summary, err := svc.Advance(7)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Answered)
	assert.Equal(t, 0, summary.Correct)
}

func TestFlashcardSessionRunsToCompletion(t *testing.T) {
	words := map[string]*entities.Word{
		"noun-haus":   nounHaus(),
		"verb-machen": verbMachen(),
	}
	third := nounHaus()
	third.ID = "noun-frau"
	third.Noun = "Frau"
	third.Article = "die"
	words["noun-frau"] = third

	states := make(map[string]*entities.ReviewState)
	for id, w := range words {
		states[id] = dueState(7, w)
	}

	vocab := &fakeVocab{words: words}
	reviews := &fakeReviews{states: states}
	svc := newTestQuizService(vocab, reviews)

	session, err := svc.StartSession(context.Background(), 7, entities.ModeFlashcardDeEn, entities.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, session.Queue, 3)

	for i := 0; i < 3; i++ {
		q, summary, err := svc.CurrentQuestion(context.Background(), 7)
		require.NoError(t, err)
		require.Nil(t, summary)
		assert.Equal(t, entities.QuestionFlashcard, q.Kind)
		assert.NotEmpty(t, q.Front)
		assert.NotEmpty(t, q.Back)

		_, err = svc.SubmitAnswer(context.Background(), 7, "correct")
		require.NoError(t, err)

		summary, err = svc.Advance(7)
		require.NoError(t, err)
		if i < 2 {
			assert.Nil(t, summary)
		} else {
			require.NotNil(t, summary)
			assert.Equal(t, 3, summary.Answered)
			assert.Equal(t, 3, summary.Correct)
		}
	}

	assert.Nil(t, svc.ActiveSession(7))
	_, _, err = svc.CurrentQuestion(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestFlashcardRejectsTypedText(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus": dueState(7, nounHaus()),
	}}
	svc := newTestQuizService(vocab, reviews)

	_, err := svc.StartSession(context.Background(), 7, entities.ModeFlashcardDeEn, entities.SessionFilter{})
	require.NoError(t, err)

	_, _, err = svc.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)

	// A typed answer is not a verdict; the card and its rank stay untouched.
	_, err = svc.SubmitAnswer(context.Background(), 7, "Häuser")
	assert.ErrorIs(t, err, ErrButtonAnswerExpected)
	assert.Empty(t, reviews.saved)

	res, err := svc.SubmitAnswer(context.Background(), 7, "correct")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Len(t, reviews.saved, 1)
}

func TestOrphanedStateSkipped(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}

	ghost := &entities.ReviewState{
		UserID:   7,
		WordID:   "noun-ghost",
		Category: entities.CategoryNoun,
		Level:    entities.LevelA1,
	}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus":  dueState(7, nounHaus()),
		"noun-ghost": ghost,
	}}
	svc := newTestQuizService(vocab, reviews)

	session, err := svc.StartSession(context.Background(), 7, entities.ModeFlashcardDeEn, entities.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, session.Queue, 2)

	// Whatever the shuffle order, the only question asked is the real word.
	q, summary, err := svc.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, summary)
	assert.Equal(t, "noun-haus", q.WordID)

	_, err = svc.SubmitAnswer(context.Background(), 7, "correct")
	require.NoError(t, err)

	summary, err = svc.Advance(7)
	if summary == nil {
		// The orphan slot is still ahead; resolving it ends the session.
		require.NoError(t, err)
		q, summary, err = svc.CurrentQuestion(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, q)
	}
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Answered)
}

func TestAllOrphansEndsImmediately(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{}}
	ghost := &entities.ReviewState{
		UserID:   7,
		WordID:   "noun-ghost",
		Category: entities.CategoryNoun,
		Level:    entities.LevelA1,
	}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{"noun-ghost": ghost}}
	svc := newTestQuizService(vocab, reviews)

	_, err := svc.StartSession(context.Background(), 7, entities.ModeFlashcardDeEn, entities.SessionFilter{})
	require.NoError(t, err)

	q, summary, err := svc.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, q)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.Answered)
	assert.Nil(t, svc.ActiveSession(7))
}

func TestMarkCurrentKnown(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus": dueState(7, nounHaus()),
	}}
	svc := newTestQuizService(vocab, reviews)

	_, err := svc.StartSession(context.Background(), 7, entities.ModeNounDrill, entities.SessionFilter{})
	require.NoError(t, err)

	summary, err := svc.MarkCurrentKnown(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, summary)

	require.Len(t, reviews.saved, 1)
	saved := reviews.saved[0]
	assert.Equal(t, 4, saved.Rank)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), saved.NextReviewAt, time.Minute)
}

func TestStartSessionReplacesPrevious(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus": dueState(7, nounHaus()),
	}}
	svc := newTestQuizService(vocab, reviews)

	first, err := svc.StartSession(context.Background(), 7, entities.ModeNounDrill, entities.SessionFilter{})
	require.NoError(t, err)

	second, err := svc.StartSession(context.Background(), 7, entities.ModeFlashcardDeEn, entities.SessionFilter{})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, svc.ActiveSession(7))
}

func TestEndSessionDiscards(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus": dueState(7, nounHaus()),
	}}
	svc := newTestQuizService(vocab, reviews)

	_, err := svc.StartSession(context.Background(), 7, entities.ModeNounDrill, entities.SessionFilter{})
	require.NoError(t, err)

	svc.EndSession(7)
	assert.Nil(t, svc.ActiveSession(7))
	assert.Empty(t, reviews.saved)
}

func TestReviewSessionSingleDueNoun(t *testing.T) {
	vocab := &fakeVocab{words: map[string]*entities.Word{"noun-haus": nounHaus()}}
	reviews := &fakeReviews{states: map[string]*entities.ReviewState{
		"noun-haus": dueState(7, nounHaus()),
	}}
	svc := newTestQuizService(vocab, reviews)

	session, err := svc.StartSession(context.Background(), 7, entities.ModeReview, entities.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, session.Queue, 1)

	q, summary, err := svc.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, summary)

	// Review mode flips between gender and plural for nouns; answer
	// whichever was asked.
	var answer string
	switch q.Kind {
	case entities.QuestionNounGender:
		answer = "das"
	case entities.QuestionNounPlural:
		answer = "Häuser"
	default:
		t.Fatalf("unexpected kind %s for a noun under review", q.Kind)
	}

	res, err := svc.SubmitAnswer(context.Background(), 7, answer)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 1, res.Rank)

	require.Len(t, reviews.saved, 1)
	assert.WithinDuration(t, time.Now().Add(4*time.Hour), reviews.saved[0].NextReviewAt, time.Minute)

	summary, err = svc.Advance(7)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Nil(t, svc.ActiveSession(7))
}

func TestReviewKindDeterministicUnderFixedSeed(t *testing.T) {
	words := map[string]*entities.Word{
		"noun-haus":   nounHaus(),
		"verb-machen": verbMachen(),
	}
	runOnce := func() []entities.QuestionKind {
		states := make(map[string]*entities.ReviewState)
		for id, w := range words {
			states[id] = dueState(7, w)
		}
		svc := newTestQuizService(&fakeVocab{words: words}, &fakeReviews{states: states})

		_, err := svc.StartSession(context.Background(), 7, entities.ModeReview, entities.SessionFilter{})
		require.NoError(t, err)

		var kinds []entities.QuestionKind
		for {
			q, summary, err := svc.CurrentQuestion(context.Background(), 7)
			require.NoError(t, err)
			if summary != nil {
				return kinds
			}
			kinds = append(kinds, q.Kind)
			summary, err = svc.Advance(7)
			require.NoError(t, err)
			if summary != nil {
				return kinds
			}
		}
	}

	first := runOnce()
	second := runOnce()
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestGradeAnswerKinds(t *testing.T) {
	haus := nounHaus()
	machen := verbMachen()

	tests := []struct {
		name      string
		q         *entities.Question
		word      *entities.Word
		raw       string
		correct   bool
		canonical string
	}{
		{
			name:      "plural exact",
			q:         &entities.Question{Kind: entities.QuestionNounPlural},
			word:      haus,
			raw:       "Hauser",
			correct:   true,
			canonical: "die Häuser",
		},
		{
			name:      "conjugation",
			q:         &entities.Question{Kind: entities.QuestionVerbConjugation, Pronoun: "du"},
			word:      machen,
			raw:       "machst",
			correct:   true,
			canonical: "du machst",
		},
		{
			name:      "verb type",
			q:         &entities.Question{Kind: entities.QuestionVerbType},
			word:      machen,
			raw:       "Regular",
			correct:   true,
			canonical: "regular",
		},
		{
			name:      "usage asks the ich form",
			q:         &entities.Question{Kind: entities.QuestionUsage},
			word:      machen,
			raw:       "mache",
			correct:   true,
			canonical: "mache",
		},
		{
			name:      "meaning",
			q:         &entities.Question{Kind: entities.QuestionMeaning},
			word:      machen,
			raw:       "to do",
			correct:   true,
			canonical: "to do",
		},
		{
			name:      "flashcard wrong verdict",
			q:         &entities.Question{Kind: entities.QuestionFlashcard, Back: "house"},
			word:      haus,
			raw:       "wrong",
			correct:   false,
			canonical: "house",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, canonical := gradeAnswer(tt.q, tt.word, tt.raw)
			assert.Equal(t, tt.correct, got)
			assert.Equal(t, tt.canonical, canonical)
		})
	}
}

func TestGradeAnswerPerfect(t *testing.T) {
	gehen := &entities.Word{
		ID:         "irregular-gehen",
		Category:   entities.CategoryIrregularVerb,
		Level:      entities.LevelA1,
		English:    "to go",
		Infinitive: "gehen",
		PartizipII: "gegangen",
		PerfectAux: "sein",
		Conjugation: map[string]string{
			"ich": "gehe",
		},
	}

	q := &entities.Question{
		Kind:    entities.QuestionPerfect,
		Person:  "ich",
		AuxForm: "bin",
	}

	ok, canonical := gradeAnswer(q, gehen, "ich bin gegangen")
	assert.True(t, ok)
	assert.Equal(t, "ich bin gegangen", canonical)

	// Containing both auxiliary and participle is enough.
	ok, _ = gradeAnswer(q, gehen, "bin gestern gegangen")
	assert.True(t, ok)

	ok, _ = gradeAnswer(q, gehen, "habe gegangen")
	assert.False(t, ok)
}

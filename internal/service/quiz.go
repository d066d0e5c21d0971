package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
)

var (
	// ErrEmptyPool is returned when no words match the requested session
	// filter. No session is created; the caller shows a "nothing to
	// practice" message.
	ErrEmptyPool = errors.New("no words to practice")

	// ErrNoActiveSession is returned by operations that require a running
	// session.
	ErrNoActiveSession = errors.New("no active quiz session")

	// ErrButtonAnswerExpected is returned when free text is submitted for a
	// flashcard, whose verdict comes only from the card's buttons.
	ErrButtonAnswerExpected = errors.New("question expects a button answer")
)

// ReviewStates is the quiz service's view of the review store.
type ReviewStates interface {
	EnsureStates(ctx context.Context, userID int64) (map[string]*entities.ReviewState, error)
	Save(ctx context.Context, state *entities.ReviewState) error
}

// VocabularyRepo resolves review state back to catalog words.
type VocabularyRepo interface {
	GetByID(id string) (*entities.Word, error)
	All() []*entities.Word
}

// AnswerResult is the outcome of one submitted answer.
type AnswerResult struct {
	Question      *entities.Question
	Correct       bool
	CorrectAnswer string // canonical answer for display
	Rank          int    // repetition rank after rescheduling
}

// QuizService runs quiz sessions: it builds the question queue, derives
// questions, grades answers and reschedules the reviewed words. At most one
// session exists per user; starting a new one discards the old one. All
// operations take the registry mutex, which also serializes access to the
// session being mutated.
type QuizService struct {
	vocab   VocabularyRepo
	reviews ReviewStates
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*entities.QuizSession
	rng      *rand.Rand
}

// NewQuizService creates a QuizService. The rand source is injected so
// shuffling and per-question sub-type selection are deterministic in tests.
func NewQuizService(vocab VocabularyRepo, reviews ReviewStates, rng *rand.Rand, logger *zap.Logger) *QuizService {
	return &QuizService{
		vocab:    vocab,
		reviews:  reviews,
		logger:   logger,
		sessions: make(map[int64]*entities.QuizSession),
		rng:      rng,
	}
}

// StartSession selects the candidate pool for the mode, shuffles it into a
// queue and activates a session for the user. A previous session, if any, is
// discarded first. Returns ErrEmptyPool when nothing matches the filter.
func (s *QuizService) StartSession(ctx context.Context, userID int64, mode entities.QuizMode, filter entities.SessionFilter) (*entities.QuizSession, error) {
	states, err := s.reviews.EnsureStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure review states: %w", err)
	}

	pool := s.selectPool(states, mode, filter)
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sessions[userID]; ok {
		s.logger.Debug("discarding previous quiz session",
			zap.Int64("user_id", userID),
			zap.String("session_id", old.ID.String()),
		)
	}

	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	session := entities.NewQuizSession(userID, mode, filter, pool)
	s.sessions[userID] = session

	s.logger.Info("quiz session started",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID.String()),
		zap.String("mode", string(mode)),
		zap.Int("queue_len", len(pool)),
	)

	return session, nil
}

// CurrentQuestion resolves the question at the cursor. For review mode the
// concrete question kind is re-derived here, at display time, so mixed pools
// vary question style per item. Orphaned review states (word gone from the
// catalog) are skipped silently; if skipping exhausts the queue the session
// ends and a summary is returned instead of a question.
func (s *QuizService) CurrentQuestion(ctx context.Context, userID int64) (*entities.Question, *entities.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil, ErrNoActiveSession
	}

	for !session.Finished() {
		state := session.Queue[session.Cursor]
		word, err := s.vocab.GetByID(state.WordID)
		if err != nil {
			// Orphaned state: the catalog no longer has this word.
			// Treat the slot as skippable and move on.
			s.logger.Warn("skipping orphaned review state",
				zap.Int64("user_id", userID),
				zap.String("word_id", state.WordID),
			)
			session.Cursor++
			session.Current = nil
			continue
		}

		if session.Current == nil {
			session.Current = s.deriveQuestion(session, word)
		}
		return session.Current, nil, nil
	}

	summary := session.Summary()
	delete(s.sessions, userID)
	return nil, summary, nil
}

// SubmitAnswer grades the raw answer against the current question, updates
// the word's review state through the scheduler and persists it. The cursor
// is not advanced; the caller shows feedback first and calls Advance.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID int64, raw string) (*AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok || session.Finished() {
		return nil, ErrNoActiveSession
	}

	state := session.Queue[session.Cursor]
	word, err := s.vocab.GetByID(state.WordID)
	if err != nil {
		return nil, fmt.Errorf("resolve word %s: %w", state.WordID, err)
	}

	if session.Current == nil {
		session.Current = s.deriveQuestion(session, word)
	}
	q := session.Current

	// Flashcards are self-graded through their buttons; stray chat text
	// must not be scored as a failed answer.
	if q.Kind == entities.QuestionFlashcard {
		if v := strings.TrimSpace(raw); v != "correct" && v != "wrong" {
			return nil, ErrButtonAnswerExpected
		}
	}

	correct, correctText := gradeAnswer(q, word, raw)

	state.ApplyReview(correct, time.Now())
	if err := s.reviews.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save review state: %w", err)
	}

	session.Answered++
	if correct {
		session.Correct++
	}

	return &AnswerResult{
		Question:      q,
		Correct:       correct,
		CorrectAnswer: correctText,
		Rank:          state.Rank,
	}, nil
}

// Advance moves the cursor to the next slot. When the queue is exhausted the
// session ends and its summary is returned; otherwise summary is nil.
func (s *QuizService) Advance(userID int64) (*entities.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(userID)
}

// MarkCurrentKnown records explicit mastery of the current word: rank 4, due
// in thirty days, then advances exactly like Advance.
func (s *QuizService) MarkCurrentKnown(ctx context.Context, userID int64) (*entities.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok || session.Finished() {
		return nil, ErrNoActiveSession
	}

	state := session.Queue[session.Cursor]
	state.MarkKnown(time.Now())
	if err := s.reviews.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save review state: %w", err)
	}

	return s.advanceLocked(userID)
}

// EndSession discards the user's session, if any. Review state is never
// touched on early exit.
func (s *QuizService) EndSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// ActiveSession returns the user's running session, or nil.
func (s *QuizService) ActiveSession(userID int64) *entities.QuizSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

func (s *QuizService) advanceLocked(userID int64) (*entities.SessionSummary, error) {
	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	session.Cursor++
	session.Current = nil

	if session.Finished() {
		summary := session.Summary()
		delete(s.sessions, userID)
		s.logger.Info("quiz session finished",
			zap.Int64("user_id", userID),
			zap.String("session_id", session.ID.String()),
			zap.Int("answered", summary.Answered),
			zap.Int("correct", summary.Correct),
		)
		return summary, nil
	}
	return nil, nil
}

// selectPool picks the review states a session draws from.
func (s *QuizService) selectPool(states map[string]*entities.ReviewState, mode entities.QuizMode, filter entities.SessionFilter) []*entities.ReviewState {
	now := time.Now()

	match := func(st *entities.ReviewState) bool {
		if filter.Level != "" && st.Level != filter.Level {
			return false
		}
		switch mode {
		case entities.ModeReview:
			return st.Due(now)
		case entities.ModeFlashcardDeEn, entities.ModeFlashcardEnDe:
			return true
		case entities.ModeNounDrill:
			return st.Category == entities.CategoryNoun
		case entities.ModeVerbDrill:
			return st.Category == entities.CategoryVerb || st.Category == entities.CategoryIrregularVerb
		case entities.ModeModalQuiz:
			return st.Category == entities.CategoryModalVerb
		case entities.ModeSeparableQuiz:
			return st.Category == entities.CategorySeparableVerb
		case entities.ModeIrregularQuiz:
			return st.Category == entities.CategoryIrregularVerb
		}
		return false
	}

	var pool []*entities.ReviewState
	for _, st := range states {
		if match(st) {
			pool = append(pool, st)
		}
	}

	// Map iteration order is random on its own; sort before the seeded
	// shuffle so a fixed seed yields a fixed queue.
	sort.Slice(pool, func(i, j int) bool { return pool[i].WordID < pool[j].WordID })
	return pool
}

// deriveQuestion builds the concrete question for the cursor position.
func (s *QuizService) deriveQuestion(session *entities.QuizSession, word *entities.Word) *entities.Question {
	kind := s.questionKind(session, word)

	q := &entities.Question{
		WordID: word.ID,
		Kind:   kind,
		Level:  word.Level,
	}

	switch kind {
	case entities.QuestionNounGender:
		q.Prompt = fmt.Sprintf("What is the gender of %s?", word.Noun)
		q.Options = []string{"der", "die", "das"}

	case entities.QuestionNounPlural:
		q.Prompt = fmt.Sprintf("What is the plural form of %s %s?", word.Article, word.Noun)

	case entities.QuestionVerbConjugation:
		q.Pronoun = s.randomPronoun(word)
		q.Prompt = fmt.Sprintf("Conjugate: %s + %s", q.Pronoun, word.Infinitive)

	case entities.QuestionVerbType:
		q.Prompt = fmt.Sprintf("Is %s regular or irregular?", word.Infinitive)
		q.Options = []string{"regular", "irregular"}

	case entities.QuestionMeaning:
		q.Prompt = fmt.Sprintf("What is the English meaning of %s?", word.Headword())

	case entities.QuestionPrefix:
		q.Prompt = fmt.Sprintf("What is the prefix of %s?", word.Infinitive)

	case entities.QuestionPartizip:
		q.Prompt = fmt.Sprintf("What is the Partizip II of %s?", word.Infinitive)

	case entities.QuestionPerfect:
		if s.rng.Intn(2) == 0 {
			q.Person = "ich"
		} else {
			q.Person = "du"
		}
		q.AuxForm = auxiliaryForm(word.PerfectAux, q.Person)
		q.Prompt = fmt.Sprintf("Form the perfect tense: %s + %s", q.Person, word.Infinitive)

	case entities.QuestionUsage:
		q.Pronoun = "ich"
		q.Prompt = fmt.Sprintf("Complete: Ich ___ … — use the correct present form of %s", word.Infinitive)

	case entities.QuestionFlashcard:
		if session.Mode == entities.ModeFlashcardDeEn {
			q.Front, q.Back = word.Headword(), word.English
		} else {
			q.Front, q.Back = word.English, word.Headword()
		}
		q.Prompt = q.Front
		q.Options = []string{"correct", "wrong"}
	}

	return q
}

// questionKind resolves the question sub-type for the current slot. Review
// sessions mix lexical categories, so the kind is chosen per item with a coin
// flip among the kinds applicable to the category; other modes fix it.
func (s *QuizService) questionKind(session *entities.QuizSession, word *entities.Word) entities.QuestionKind {
	switch session.Mode {
	case entities.ModeReview:
		return s.reviewKind(word)
	case entities.ModeFlashcardDeEn, entities.ModeFlashcardEnDe:
		return entities.QuestionFlashcard
	case entities.ModeNounDrill:
		return entities.QuestionNounGender
	case entities.ModeVerbDrill:
		return entities.QuestionVerbConjugation
	default:
		return session.Filter.Kind
	}
}

func (s *QuizService) reviewKind(word *entities.Word) entities.QuestionKind {
	var kinds []entities.QuestionKind
	switch word.Category {
	case entities.CategoryNoun:
		kinds = []entities.QuestionKind{entities.QuestionNounGender, entities.QuestionNounPlural}
	case entities.CategoryVerb, entities.CategoryIrregularVerb:
		kinds = []entities.QuestionKind{entities.QuestionVerbConjugation, entities.QuestionVerbType}
	case entities.CategoryModalVerb:
		kinds = []entities.QuestionKind{entities.QuestionMeaning, entities.QuestionVerbConjugation}
	case entities.CategorySeparableVerb:
		kinds = []entities.QuestionKind{entities.QuestionMeaning, entities.QuestionVerbConjugation, entities.QuestionPrefix}
	default:
		return entities.QuestionMeaning
	}
	return kinds[s.rng.Intn(len(kinds))]
}

func (s *QuizService) randomPronoun(word *entities.Word) string {
	pronouns := make([]string, 0, len(word.Conjugation))
	for p := range word.Conjugation {
		pronouns = append(pronouns, p)
	}
	sort.Strings(pronouns)
	return pronouns[s.rng.Intn(len(pronouns))]
}

// gradeAnswer checks raw against the question and returns the outcome plus
// the canonical answer for display.
func gradeAnswer(q *entities.Question, word *entities.Word, raw string) (bool, string) {
	switch q.Kind {
	case entities.QuestionNounGender:
		correct := strings.EqualFold(strings.TrimSpace(raw), word.Article)
		return correct, fmt.Sprintf("%s %s", word.Article, word.Noun)

	case entities.QuestionNounPlural:
		return IsExactMatch(raw, word.Plural), "die " + word.Plural

	case entities.QuestionVerbConjugation:
		expected := word.Conjugation[q.Pronoun]
		return IsExactMatch(raw, expected), fmt.Sprintf("%s %s", q.Pronoun, expected)

	case entities.QuestionVerbType:
		expected := word.ExpectedVerbType()
		return strings.EqualFold(strings.TrimSpace(raw), expected), expected

	case entities.QuestionMeaning:
		return IsMeaningMatch(raw, word.Glosses()), word.English

	case entities.QuestionPrefix:
		return IsExactMatch(raw, word.Prefix), word.Prefix

	case entities.QuestionPartizip:
		return IsExactMatch(raw, word.PartizipII), word.PartizipII

	case entities.QuestionPerfect:
		expected := fmt.Sprintf("%s %s %s", q.Person, q.AuxForm, word.PartizipII)
		return isPerfectMatch(raw, q.AuxForm, word.PartizipII, expected), expected

	case entities.QuestionUsage:
		// The cloze always asks for the ich-form; for separable verbs it
		// already contains the detached prefix ("rufe an").
		expected := word.Conjugation["ich"]
		return IsExactMatch(raw, expected), expected

	case entities.QuestionFlashcard:
		// Self-graded: the button value is the verdict.
		return strings.TrimSpace(raw) == "correct", q.Back
	}

	return false, ""
}

// isPerfectMatch accepts the whole normalized phrase or, failing that, an
// answer containing both the auxiliary form and the participle.
func isPerfectMatch(raw, auxForm, partizip, expected string) bool {
	u := NormalizeGerman(raw)
	if u == "" {
		return false
	}
	if u == NormalizeGerman(expected) {
		return true
	}
	return strings.Contains(u, NormalizeGerman(auxForm)) && strings.Contains(u, NormalizeGerman(partizip))
}

// auxiliaryForm conjugates the perfect auxiliary for the asked person.
func auxiliaryForm(aux, person string) string {
	if aux == "sein" {
		if person == "ich" {
			return "bin"
		}
		return "bist"
	}
	if person == "ich" {
		return "habe"
	}
	return "hast"
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuizMode identifies which question family a session asks.
type QuizMode string

const (
	// ModeReview mixes every due word and re-derives a concrete question
	// kind per item at display time.
	ModeReview QuizMode = "review"

	// Flashcard browsing over the whole catalog, self-graded.
	ModeFlashcardDeEn QuizMode = "flashcard_de_en"
	ModeFlashcardEnDe QuizMode = "flashcard_en_de"

	// Level drills over one domain.
	ModeNounDrill QuizMode = "noun_drill" // gender questions
	ModeVerbDrill QuizMode = "verb_drill" // conjugation questions

	// Dedicated verb-family quizzes; the concrete question kind comes from
	// the session filter.
	ModeModalQuiz     QuizMode = "modal"
	ModeSeparableQuiz QuizMode = "separable"
	ModeIrregularQuiz QuizMode = "irregular"
)

// QuestionKind is the concrete sub-type of a single question.
type QuestionKind string

const (
	QuestionNounGender      QuestionKind = "noun_gender"
	QuestionNounPlural      QuestionKind = "noun_plural"
	QuestionVerbConjugation QuestionKind = "verb_conjugation"
	QuestionVerbType        QuestionKind = "verb_type"
	QuestionMeaning         QuestionKind = "meaning"
	QuestionPrefix          QuestionKind = "prefix"
	QuestionPartizip        QuestionKind = "partizip"
	QuestionPerfect         QuestionKind = "perfect"
	QuestionUsage           QuestionKind = "usage"
	QuestionFlashcard       QuestionKind = "flashcard"
)

// Typed reports whether the question expects a free-text answer rather than
// a button press.
func (k QuestionKind) Typed() bool {
	switch k {
	case QuestionNounGender, QuestionVerbType, QuestionFlashcard:
		return false
	}
	return true
}

// SessionFilter narrows the candidate pool of a session.
type SessionFilter struct {
	Level string       // "A1", "A2", or "" for all levels
	Kind  QuestionKind // fixed question kind for verb-family quizzes
}

// Question is one resolved question of a session, produced at display time.
// The randomly chosen parts (pronoun, perfect-tense person) are captured here
// so the answer is checked against exactly what was asked.
type Question struct {
	WordID string
	Kind   QuestionKind
	Level  string

	Prompt string

	// Conjugation context.
	Pronoun string

	// Perfect-tense context.
	Person  string // "ich" or "du"
	AuxForm string // conjugated auxiliary, e.g. "habe", "bist"

	// Flashcard faces.
	Front string
	Back  string

	// Closed answer set for button questions.
	Options []string
}

// QuizSession is an in-memory quiz run for one user. The queue is fixed at
// session start; Cursor walks it and reaching len(Queue) ends the session.
// At most one session exists per user, enforced by the quiz service registry.
type QuizSession struct {
	ID     uuid.UUID
	UserID int64
	Mode   QuizMode
	Filter SessionFilter

	Queue  []*ReviewState
	Cursor int

	// Current is the question derived for the cursor position, nil until
	// CurrentQuestion runs and cleared again on advance.
	Current *Question

	Answered  int
	Correct   int
	StartedAt time.Time
}

// NewQuizSession builds a session over an already-shuffled queue.
func NewQuizSession(userID int64, mode QuizMode, filter SessionFilter, queue []*ReviewState) *QuizSession {
	return &QuizSession{
		ID:        uuid.New(),
		UserID:    userID,
		Mode:      mode,
		Filter:    filter,
		Queue:     queue,
		StartedAt: time.Now(),
	}
}

// Finished reports whether the cursor has walked past the last question.
func (s *QuizSession) Finished() bool {
	return s.Cursor >= len(s.Queue)
}

// SessionSummary is returned to the caller when a session ends.
type SessionSummary struct {
	Mode     QuizMode
	Total    int
	Answered int
	Correct  int
}

// Summary snapshots the session counters.
func (s *QuizSession) Summary() *SessionSummary {
	return &SessionSummary{
		Mode:     s.Mode,
		Total:    len(s.Queue),
		Answered: s.Answered,
		Correct:  s.Correct,
	}
}

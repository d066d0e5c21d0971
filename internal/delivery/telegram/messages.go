package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/service"
)

const msgWelcome = `<b>Willkommen! 🇩🇪</b>

I help you learn German A1/A2 vocabulary with spaced repetition.

📖 /review — practice the words that are due
🃏 /flashcards — browse the catalog as flashcards
🏋️ /drill — noun gender and verb conjugation drills
🔀 /verbs — modal, separable and irregular verb quizzes
⏰ /due — how many words are waiting for you
📊 /progress — your learning progress
⚙️ /settings — reminders and level filter
🔁 /reset — start over from scratch

Type /help any time to see this list again.`

const msgHelp = `<b>Commands</b>

/review — quiz over the words currently due
/flashcards — flashcards, German→English or English→German
/drill — focused drills: noun gender, verb conjugation
/verbs — modal, separable and irregular verb quizzes
/due — count of words due for review
/progress — totals by learning stage
/settings — reminders and level filter
/reset — wipe your progress
/help — this message

During a quiz, answer open questions by typing the answer into the chat.`

const (
	msgUnknownCommand     = "I don't know that command. Try /help."
	msgInternalError      = "Something went wrong. Please try again."
	msgNoSessionHint      = "No quiz is running. Start one with /review, /flashcards, /drill or /verbs."
	msgEmptyPool          = "Nothing to practice right now. 🎉 Check back later or try /flashcards."
	msgSessionStopped     = "Quiz stopped. Your progress on answered questions is saved."
	msgFlashcardDirection = "Which direction?"
	msgDrillMenu          = "Pick a drill:"
	msgVerbFamilyMenu     = "Which verb family?"
	msgResetConfirm       = "⚠️ This wipes all your review progress. Every word goes back to the start. Are you sure?"
	msgResetDone          = "Progress wiped. Everything is due again — good luck! 💪"
	msgResetCancelled     = "Nothing was changed."
	msgFlashcardHint      = "Use the buttons on the card: flip it, then tell me if you knew it."
	msgEmptyWordList      = "No words in this family at your level."
)

func formatDueCount(due int) string {
	if due == 0 {
		return "Nothing is due right now. 🎉"
	}
	if due == 1 {
		return "1 word is due for review. Start with /review!"
	}
	return fmt.Sprintf("%d words are due for review. Start with /review!", due)
}

func formatProgress(summary *service.ProgressSummary) string {
	return fmt.Sprintf(
		"<b>📊 Your progress</b>\n\n"+
			"📚 Words in catalog: %d\n"+
			"⏰ Due now: %d\n\n"+
			"🆕 New: %d\n"+
			"📖 Learning: %d\n"+
			"✅ Mastered: %d",
		summary.Total,
		summary.Due,
		summary.New,
		summary.Learning,
		summary.Mastered,
	)
}

func formatSettings(settings *entities.UserSettings) string {
	reminders := "off"
	if settings.RemindersEnabled {
		reminders = "on"
	}
	level := settings.LevelFilter
	if level == "" {
		level = "all levels"
	}
	return fmt.Sprintf(
		"<b>⚙️ Settings</b>\n\n🔔 Reminders: %s\n🎓 Level: %s",
		reminders,
		level,
	)
}

// formatQuestion renders the prompt of a question. Typed questions get a hint
// that the answer goes into the chat.
func formatQuestion(q *entities.Question, position, total int) string {
	header := fmt.Sprintf("<b>Question %d of %d</b>", position, total)
	if q.Kind.Typed() {
		return fmt.Sprintf("%s\n\n%s\n\n<i>Type your answer.</i>", header, q.Prompt)
	}
	return fmt.Sprintf("%s\n\n%s", header, q.Prompt)
}

func formatFlashcardBack(q *entities.Question) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s\n\nDid you know it?", q.Front, q.Back)
}

func formatAnswerResult(res *service.AnswerResult) string {
	if res.Correct {
		return fmt.Sprintf("✅ Correct!\n\n<b>%s</b>", res.CorrectAnswer)
	}
	return fmt.Sprintf("❌ Not quite.\n\nThe answer is: <b>%s</b>", res.CorrectAnswer)
}

// formatVerbList renders a verb family's reference view: each word with the
// forms that family's quizzes ask about.
func formatVerbList(category entities.Category, words []*entities.Word) string {
	if len(words) == 0 {
		return msgEmptyWordList
	}

	var b strings.Builder
	switch category {
	case entities.CategoryModalVerb:
		b.WriteString("<b>🗣 Modal verbs</b>\n<i>Pair with a second verb in the infinitive: ich kann schwimmen.</i>\n\n")
	case entities.CategorySeparableVerb:
		b.WriteString("<b>✂️ Separable verbs</b>\n<i>The prefix detaches and moves to the end: ich rufe dich an.</i>\n\n")
	case entities.CategoryIrregularVerb:
		b.WriteString("<b>🌀 Irregular verbs</b>\n<i>Perfect tense with haben or sein plus the Partizip II.</i>\n\n")
	default:
		b.WriteString("<b>📋 Words</b>\n\n")
	}

	for _, w := range words {
		switch category {
		case entities.CategorySeparableVerb:
			fmt.Fprintf(&b, "<b>%s</b> (%s + %s) — %s · ich %s\n",
				w.Infinitive, w.Prefix, w.Base, w.English, w.Conjugation["ich"])
		case entities.CategoryIrregularVerb:
			fmt.Fprintf(&b, "<b>%s</b> — %s · %s %s\n",
				w.Infinitive, w.English, w.PerfectAux, w.PartizipII)
		default:
			fmt.Fprintf(&b, "<b>%s</b> — %s · ich %s\n",
				w.Infinitive, w.English, w.Conjugation["ich"])
		}
	}

	return b.String()
}

func formatSummary(summary *entities.SessionSummary) string {
	if summary.Answered == 0 {
		return "<b>Quiz finished.</b>\n\nNo questions answered this time."
	}
	pct := float64(summary.Correct) / float64(summary.Answered) * 100
	return fmt.Sprintf(
		"<b>🏁 Quiz finished!</b>\n\n✅ Correct: %d of %d (%.0f%%)",
		summary.Correct,
		summary.Answered,
		pct,
	)
}

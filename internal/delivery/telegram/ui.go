package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
)

// buildFlashcardMenuKeyboard builds the flashcard direction menu.
func buildFlashcardMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇩🇪 → 🇬🇧 German to English", buildModeCallback(string(entities.ModeFlashcardDeEn))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 → 🇩🇪 English to German", buildModeCallback(string(entities.ModeFlashcardEnDe))),
		),
	)
}

// buildDrillMenuKeyboard builds the drill selection menu.
func buildDrillMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏷 Noun gender", buildModeCallback(string(entities.ModeNounDrill))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔤 Verb conjugation", buildModeCallback(string(entities.ModeVerbDrill))),
		),
	)
}

// buildVerbFamilyKeyboard builds the verb family menu. Each quiz button
// carries the question kind the session will ask; every family offers a
// meaning quiz. The last row opens the reference word lists.
func buildVerbFamilyKeyboard() tgbotapi.InlineKeyboardMarkup {
	modal := string(entities.ModeModalQuiz)
	separable := string(entities.ModeSeparableQuiz)
	irregular := string(entities.ModeIrregularQuiz)
	meaning := string(entities.QuestionMeaning)

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗣 Modal: meaning", buildModeCallback(modal, meaning)),
			tgbotapi.NewInlineKeyboardButtonData("forms", buildModeCallback(modal, string(entities.QuestionVerbConjugation))),
			tgbotapi.NewInlineKeyboardButtonData("usage", buildModeCallback(modal, string(entities.QuestionUsage))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✂️ Separable: meaning", buildModeCallback(separable, meaning)),
			tgbotapi.NewInlineKeyboardButtonData("prefix", buildModeCallback(separable, string(entities.QuestionPrefix))),
			tgbotapi.NewInlineKeyboardButtonData("forms", buildModeCallback(separable, string(entities.QuestionVerbConjugation))),
			tgbotapi.NewInlineKeyboardButtonData("usage", buildModeCallback(separable, string(entities.QuestionUsage))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌀 Irregular: meaning", buildModeCallback(irregular, meaning)),
			tgbotapi.NewInlineKeyboardButtonData("Partizip II", buildModeCallback(irregular, string(entities.QuestionPartizip))),
			tgbotapi.NewInlineKeyboardButtonData("perfect", buildModeCallback(irregular, string(entities.QuestionPerfect))),
			tgbotapi.NewInlineKeyboardButtonData("forms", buildModeCallback(irregular, string(entities.QuestionVerbConjugation))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Modal list", buildListCallback(string(entities.CategoryModalVerb))),
			tgbotapi.NewInlineKeyboardButtonData("Separable list", buildListCallback(string(entities.CategorySeparableVerb))),
			tgbotapi.NewInlineKeyboardButtonData("Irregular list", buildListCallback(string(entities.CategoryIrregularVerb))),
		),
	)
}

// buildQuestionKeyboard builds the answer keyboard for button questions, plus
// the session controls. Typed questions only get the controls row.
func buildQuestionKeyboard(q *entities.Question) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if q.Kind == entities.QuestionFlashcard {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👀 Show answer", buildFlipCallback()),
		))
	} else {
		var row []tgbotapi.InlineKeyboardButton
		for _, option := range q.Options {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(option, buildAnswerCallback(option)))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	rows = append(rows, buildSessionControlRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildFlashcardBackKeyboard builds the self-grading keyboard for a flipped
// flashcard.
func buildFlashcardBackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I knew it", buildAnswerCallback("correct")),
			tgbotapi.NewInlineKeyboardButtonData("❌ I didn't", buildAnswerCallback("wrong")),
		),
		buildSessionControlRow(),
	)
}

// buildFeedbackKeyboard builds the keyboard shown under answer feedback.
func buildFeedbackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Next", buildNextCallback()),
		),
		buildSessionControlRow(),
	)
}

func buildSessionControlRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("💡 I know this", buildKnownCallback()),
		tgbotapi.NewInlineKeyboardButtonData("🛑 Stop", buildStopCallback()),
	)
}

// buildSummaryKeyboard builds the keyboard under the end-of-session summary.
func buildSummaryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Review again", buildModeCallback(string(entities.ModeReview))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Start review", buildModeCallback(string(entities.ModeReview))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", buildSettingsCallback(settingsMenu)),
		),
	)
}

// buildSettingsKeyboard builds main settings keyboard.
func buildSettingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Toggle reminders", buildReminderToggleCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎓 All levels", buildLevelCallback("all")),
			tgbotapi.NewInlineKeyboardButtonData("A1", buildLevelCallback(entities.LevelA1)),
			tgbotapi.NewInlineKeyboardButtonData("A2", buildLevelCallback(entities.LevelA2)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

// buildResetConfirmKeyboard builds the confirmation keyboard for /reset.
func buildResetConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, wipe it", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Cancel", buildResetCancelCallback()),
		),
	)
}

// buildReminderKeyboard builds the keyboard under a due-words reminder.
func buildReminderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Review now", buildModeCallback(string(entities.ModeReview))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔕 Disable reminders", buildReminderToggleCallback()),
		),
	)
}

package telegram

import (
	"context"
	"errors"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/service"
)

func (h *Handler) startHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, err := h.settingsService.GetOrCreate(ctx, userID); err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, msgWelcome)
		h.send(msg)
		return nil
	}
}

func (h *Handler) reviewHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.startQuiz(ctx, userID, chatID, entities.ModeReview, entities.SessionFilter{})
	}
}

func (h *Handler) dueHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		due, err := h.reviewService.DueCount(ctx, userID)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, formatDueCount(due))
		h.send(msg)
		return nil
	}
}

func (h *Handler) progressHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		summary, err := h.reviewService.Summary(ctx, userID)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, formatProgress(summary))
		msg.ReplyMarkup = buildProgressKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) settingsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, formatSettings(settings))
		msg.ReplyMarkup = buildSettingsKeyboard()
		h.send(msg)
		return nil
	}
}

// answerHandler grades a typed chat message against the current question and
// shows feedback. The session advances when the user presses Next.
func (h *Handler) answerHandler(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		res, err := h.quizService.SubmitAnswer(ctx, userID, text)
		if err != nil {
			if errors.Is(err, service.ErrNoActiveSession) {
				h.sendError(chatID, msgNoSessionHint)
				return nil
			}
			if errors.Is(err, service.ErrButtonAnswerExpected) {
				h.sendError(chatID, msgFlashcardHint)
				return nil
			}
			return err
		}

		msg := newHTMLMessage(chatID, formatAnswerResult(res))
		msg.ReplyMarkup = buildFeedbackKeyboard()
		h.send(msg)
		return nil
	}
}

// startQuiz starts a session and sends its first question. Level filtering
// always follows the user's settings; the kind filter comes from the caller.
func (h *Handler) startQuiz(ctx context.Context, userID, chatID int64, mode entities.QuizMode, filter entities.SessionFilter) error {
	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	filter.Level = settings.LevelFilter

	if _, err := h.quizService.StartSession(ctx, userID, mode, filter); err != nil {
		if errors.Is(err, service.ErrEmptyPool) {
			h.sendError(chatID, msgEmptyPool)
			return nil
		}
		return err
	}

	return h.sendCurrentQuestion(ctx, userID, chatID)
}

// sendCurrentQuestion sends the question at the cursor as a new message, or
// the summary if skipping orphans ended the session.
func (h *Handler) sendCurrentQuestion(ctx context.Context, userID, chatID int64) error {
	q, summary, err := h.quizService.CurrentQuestion(ctx, userID)
	if err != nil {
		return err
	}
	if summary != nil {
		msg := newHTMLMessage(chatID, formatSummary(summary))
		msg.ReplyMarkup = buildSummaryKeyboard()
		h.send(msg)
		return nil
	}

	position, total := h.sessionPosition(userID)
	msg := newHTMLMessage(chatID, formatQuestion(q, position, total))
	msg.ReplyMarkup = buildQuestionKeyboard(q)
	h.send(msg)
	return nil
}

func (h *Handler) sessionPosition(userID int64) (position, total int) {
	if session := h.quizService.ActiveSession(userID); session != nil {
		return session.Cursor + 1, len(session.Queue)
	}
	return 1, 1
}

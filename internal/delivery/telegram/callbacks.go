package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	cd := decodeCallback(cb.Data)
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	var err error
	switch cd.Action {
	case actionMode:
		err = h.handleModeCallback(ctx, userID, chatID, cd.Params)
	case actionAnswer:
		err = h.handleAnswerCallback(ctx, userID, chatID, messageID, cd.Params)
	case actionFlip:
		err = h.handleFlipCallback(ctx, userID, chatID, messageID)
	case actionNext:
		err = h.handleAdvanceCallback(ctx, userID, chatID, messageID, false)
	case actionKnown:
		err = h.handleAdvanceCallback(ctx, userID, chatID, messageID, true)
	case actionStop:
		h.quizService.EndSession(userID)
		h.send(newHTMLEdit(chatID, messageID, msgSessionStopped, nil))
	case actionList:
		err = h.handleListCallback(ctx, userID, chatID, cd.Params)
	case actionProgress:
		err = h.handleProgressCallback(ctx, userID, chatID, messageID)
	case actionSettings:
		err = h.handleSettingsCallback(ctx, userID, chatID, messageID, cd.Params)
	case actionReset:
		err = h.handleResetCallback(ctx, userID, chatID, messageID, cd.Params)
	default:
		return
	}

	if err != nil {
		h.logger.Error("callback handling failed",
			zap.Int64("user_id", userID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

// handleModeCallback starts a session from a menu button. The optional second
// parameter pins the question kind for verb family quizzes.
func (h *Handler) handleModeCallback(ctx context.Context, userID, chatID int64, params []string) error {
	if len(params) == 0 {
		return errors.New("mode callback without mode")
	}

	mode := entities.QuizMode(params[0])
	filter := entities.SessionFilter{}
	if len(params) > 1 {
		filter.Kind = entities.QuestionKind(params[1])
	}

	h.quizService.EndSession(userID)
	return h.startQuiz(ctx, userID, chatID, mode, filter)
}

func (h *Handler) handleAnswerCallback(ctx context.Context, userID, chatID int64, messageID int, params []string) error {
	if len(params) == 0 {
		return errors.New("answer callback without value")
	}

	res, err := h.quizService.SubmitAnswer(ctx, userID, params[0])
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			h.send(newHTMLEdit(chatID, messageID, msgNoSessionHint, nil))
			return nil
		}
		return err
	}

	kb := buildFeedbackKeyboard()
	h.send(newHTMLEdit(chatID, messageID, formatAnswerResult(res), &kb))
	return nil
}

// handleFlipCallback reveals the back of the current flashcard.
func (h *Handler) handleFlipCallback(ctx context.Context, userID, chatID int64, messageID int) error {
	q, summary, err := h.quizService.CurrentQuestion(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			h.send(newHTMLEdit(chatID, messageID, msgNoSessionHint, nil))
			return nil
		}
		return err
	}
	if summary != nil {
		kb := buildSummaryKeyboard()
		h.send(newHTMLEdit(chatID, messageID, formatSummary(summary), &kb))
		return nil
	}

	kb := buildFlashcardBackKeyboard()
	h.send(newHTMLEdit(chatID, messageID, formatFlashcardBack(q), &kb))
	return nil
}

// handleAdvanceCallback moves the session forward, optionally marking the
// current word as known first, and edits the message into the next question
// or the summary.
func (h *Handler) handleAdvanceCallback(ctx context.Context, userID, chatID int64, messageID int, markKnown bool) error {
	var summary *entities.SessionSummary
	var err error
	if markKnown {
		summary, err = h.quizService.MarkCurrentKnown(ctx, userID)
	} else {
		summary, err = h.quizService.Advance(userID)
	}
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			h.send(newHTMLEdit(chatID, messageID, msgNoSessionHint, nil))
			return nil
		}
		return err
	}

	if summary != nil {
		kb := buildSummaryKeyboard()
		h.send(newHTMLEdit(chatID, messageID, formatSummary(summary), &kb))
		return nil
	}

	q, summary, err := h.quizService.CurrentQuestion(ctx, userID)
	if err != nil {
		return err
	}
	if summary != nil {
		kb := buildSummaryKeyboard()
		h.send(newHTMLEdit(chatID, messageID, formatSummary(summary), &kb))
		return nil
	}

	position, total := h.sessionPosition(userID)
	kb := buildQuestionKeyboard(q)
	h.send(newHTMLEdit(chatID, messageID, formatQuestion(q, position, total), &kb))
	return nil
}

// handleListCallback sends a verb family's reference list as a new message,
// filtered to the user's level, keeping the menu in place.
func (h *Handler) handleListCallback(ctx context.Context, userID, chatID int64, params []string) error {
	if len(params) == 0 {
		return errors.New("list callback without category")
	}

	category := entities.Category(params[0])
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", params[0])
	}

	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	words := h.catalog.ByLevelAndDomain(settings.LevelFilter, category)
	h.send(newHTMLMessage(chatID, formatVerbList(category, words)))
	return nil
}

func (h *Handler) handleProgressCallback(ctx context.Context, userID, chatID int64, messageID int) error {
	summary, err := h.reviewService.Summary(ctx, userID)
	if err != nil {
		return err
	}

	kb := buildProgressKeyboard()
	h.send(newHTMLEdit(chatID, messageID, formatProgress(summary), &kb))
	return nil
}

func (h *Handler) handleSettingsCallback(ctx context.Context, userID, chatID int64, messageID int, params []string) error {
	if len(params) == 0 {
		return errors.New("settings callback without sub-action")
	}

	switch params[0] {
	case settingsMenu:
		// Re-render below.

	case settingsReminders:
		if _, err := h.settingsService.ToggleReminders(ctx, userID); err != nil {
			return err
		}

	case settingsLevel:
		if len(params) < 2 {
			return errors.New("level callback without level")
		}
		level := params[1]
		if level == "all" {
			level = ""
		}
		if err := h.settingsService.SetLevelFilter(ctx, userID, level); err != nil {
			return err
		}

	default:
		return nil
	}

	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	kb := buildSettingsKeyboard()
	h.send(newHTMLEdit(chatID, messageID, formatSettings(settings), &kb))
	return nil
}

func (h *Handler) handleResetCallback(ctx context.Context, userID, chatID int64, messageID int, params []string) error {
	if len(params) == 0 {
		return errors.New("reset callback without sub-action")
	}

	switch params[0] {
	case resetConfirm:
		h.quizService.EndSession(userID)
		if err := h.reviewService.Reset(ctx, userID); err != nil {
			return err
		}
		h.send(newHTMLEdit(chatID, messageID, msgResetDone, nil))

	case resetCancel:
		h.send(newHTMLEdit(chatID, messageID, msgResetCancelled, nil))
	}

	return nil
}

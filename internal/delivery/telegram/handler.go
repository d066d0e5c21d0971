package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/service"
)

type QuizService interface {
	StartSession(ctx context.Context, userID int64, mode entities.QuizMode, filter entities.SessionFilter) (*entities.QuizSession, error)
	CurrentQuestion(ctx context.Context, userID int64) (*entities.Question, *entities.SessionSummary, error)
	SubmitAnswer(ctx context.Context, userID int64, raw string) (*service.AnswerResult, error)
	Advance(userID int64) (*entities.SessionSummary, error)
	MarkCurrentKnown(ctx context.Context, userID int64) (*entities.SessionSummary, error)
	EndSession(userID int64)
	ActiveSession(userID int64) *entities.QuizSession
}

type ReviewService interface {
	DueCount(ctx context.Context, userID int64) (int, error)
	Summary(ctx context.Context, userID int64) (*service.ProgressSummary, error)
	Reset(ctx context.Context, userID int64) error
}

type SettingsService interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error)
	ToggleReminders(ctx context.Context, userID int64) (bool, error)
	SetLevelFilter(ctx context.Context, userID int64, level string) error
}

// Catalog serves the reference word-list views.
type Catalog interface {
	ByLevelAndDomain(level string, c entities.Category) []*entities.Word
}

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	quizService     QuizService
	reviewService   ReviewService
	settingsService SettingsService
	catalog         Catalog
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	quizService QuizService,
	reviewService ReviewService,
	settingsService SettingsService,
	catalog Catalog,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		quizService:     quizService,
		reviewService:   reviewService,
		settingsService: settingsService,
		catalog:         catalog,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	msg := newHTMLMessage(chatID, "")

	if update.Message.IsCommand() {
		// Any command abandons a running quiz; review state already saved
		// for answered questions is kept.
		h.quizService.EndSession(userID)

		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.startHandler(userID))(ctx, chatID)

		case "review":
			_ = h.withErrorHandling(h.reviewHandler(userID))(ctx, chatID)

		case "flashcards":
			msg.Text = msgFlashcardDirection
			msg.ReplyMarkup = buildFlashcardMenuKeyboard()
			h.send(msg)

		case "drill":
			msg.Text = msgDrillMenu
			msg.ReplyMarkup = buildDrillMenuKeyboard()
			h.send(msg)

		case "verbs":
			msg.Text = msgVerbFamilyMenu
			msg.ReplyMarkup = buildVerbFamilyKeyboard()
			h.send(msg)

		case "due":
			_ = h.withErrorHandling(h.dueHandler(userID))(ctx, chatID)

		case "progress":
			_ = h.withErrorHandling(h.progressHandler(userID))(ctx, chatID)

		case "settings":
			_ = h.withErrorHandling(h.settingsHandler(userID))(ctx, chatID)

		case "reset":
			msg.Text = msgResetConfirm
			msg.ReplyMarkup = buildResetConfirmKeyboard()
			h.send(msg)

		case "help":
			msg.Text = msgHelp
			h.send(msg)

		default:
			msg.Text = msgUnknownCommand
			h.send(msg)
		}

		return
	}

	// Plain text while a session is running is a typed quiz answer.
	if h.quizService.ActiveSession(userID) != nil {
		_ = h.withErrorHandling(h.answerHandler(userID, update.Message.Text))(ctx, chatID)
		return
	}

	msg.Text = msgNoSessionHint
	h.send(msg)
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

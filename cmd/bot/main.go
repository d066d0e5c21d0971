package main

import (
	"context"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/deutsch-weg-bot/internal/config"
	"github.com/aliskhannn/deutsch-weg-bot/internal/delivery/telegram"
	"github.com/aliskhannn/deutsch-weg-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/deutsch-weg-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/deutsch-weg-bot/internal/logger"
	"github.com/aliskhannn/deutsch-weg-bot/internal/repository"
	"github.com/aliskhannn/deutsch-weg-bot/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "review", Description: "Review the words that are due"},
		{Command: "flashcards", Description: "Browse the catalog as flashcards"},
		{Command: "drill", Description: "Noun gender and verb conjugation drills"},
		{Command: "verbs", Description: "Modal, separable and irregular verb quizzes"},
		{Command: "due", Description: "How many words are due"},
		{Command: "progress", Description: "Show learning progress"},
		{Command: "settings", Description: "Reminders and level filter"},
		{Command: "reset", Description: "Wipe all progress"},
		{Command: "help", Description: "Help"},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	zl.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the vocabulary catalog from the bundled asset.
	vocabRepo, err := repository.NewVocabularyRepository(cfg.VocabularyJSONPath)
	if err != nil {
		zl.Fatal("failed to load vocabulary catalog", zap.Error(err))
	}
	zl.Info("vocabulary catalog loaded", zap.Int("words", len(vocabRepo.All())))

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zl.Fatal("missing database configuration", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zl.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	// Snapshot the catalog so review state always joins against known words.
	// The sentinel makes this a one-time write; later startups skip it.
	transactor := postgres.NewTransactor(pool)
	catalogRepo := pgrepo.NewCatalogRepository(pool, transactor)
	written, err := catalogRepo.EnsureSnapshot(ctx, vocabRepo.All())
	if err != nil {
		zl.Fatal("failed to snapshot catalog", zap.Error(err))
	}
	if written {
		zl.Info("catalog snapshot written", zap.Int("words", len(vocabRepo.All())))
	} else {
		zl.Info("catalog snapshot already present")
	}

	reviewRepo := pgrepo.NewReviewRepository(pool)
	settingsRepo := pgrepo.NewSettingsRepository(pool)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	reviewService := service.NewReviewService(vocabRepo, reviewRepo, zl)
	quizService := service.NewQuizService(vocabRepo, reviewService, rng, zl)
	settingsService := service.NewSettingsService(settingsRepo)
	reminderService := service.NewReminderService(reviewRepo, zl)

	handler := telegram.NewHandler(
		bot,
		zl,
		quizService,
		reviewService,
		settingsService,
		vocabRepo,
	)

	reminderService.SetNotifier(handler)
	go reminderService.Start(ctx)

	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Fatal("telegram handler failed", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}

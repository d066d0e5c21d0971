package service

import (
	"context"
	"time"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
)

// ReviewRepository persists per-user review state.
type ReviewRepository interface {
	LoadAll(ctx context.Context, userID int64) (map[string]*entities.ReviewState, error)
	Upsert(ctx context.Context, state *entities.ReviewState) error
	Reset(ctx context.Context, userID int64) error
	ListDueCounts(ctx context.Context, now time.Time) ([]entities.UserDueCount, error)
}

// SettingsRepository persists user settings.
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error)
	Create(ctx context.Context, userID int64) error
	UpdateRemindersEnabled(ctx context.Context, userID int64, enabled bool) error
	UpdateLevelFilter(ctx context.Context, userID int64, level string) error
}

// ReminderNotifier sends due-review notifications to users.
type ReminderNotifier interface {
	SendDueReminder(chatID int64, dueCount int) error
}

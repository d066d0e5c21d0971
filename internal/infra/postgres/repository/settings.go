package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/infra/postgres"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository persists user settings in the database.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a SettingsRepository with the provided
// database pool.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByUserID retrieves a user's settings by their Telegram user id.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	query := `
		SELECT user_id, reminders_enabled, level_filter, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var s entities.UserSettings
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.RemindersEnabled,
		&s.LevelFilter,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get user settings: %w", err)
	}

	return &s, nil
}

// Create inserts default settings for the user. Existing rows are left
// untouched.
func (r *SettingsRepository) Create(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO user_settings (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("create user settings: %w", err)
	}

	return nil
}

// UpdateRemindersEnabled flips the user's reminder preference.
func (r *SettingsRepository) UpdateRemindersEnabled(ctx context.Context, userID int64, enabled bool) error {
	query := `
		UPDATE user_settings
		SET reminders_enabled = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := r.db.Exec(ctx, query, userID, enabled)
	if err != nil {
		return fmt.Errorf("update reminders enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// UpdateLevelFilter sets the user's level filter. An empty level means no
// filtering.
func (r *SettingsRepository) UpdateLevelFilter(ctx context.Context, userID int64, level string) error {
	query := `
		UPDATE user_settings
		SET level_filter = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := r.db.Exec(ctx, query, userID, level)
	if err != nil {
		return fmt.Errorf("update level filter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

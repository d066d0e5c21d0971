package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/deutsch-weg-bot/internal/domain/entities"
	"github.com/aliskhannn/deutsch-weg-bot/internal/infra/postgres/repository"
)

// SettingsService manages per-user preferences.
type SettingsService struct {
	settingsRepo SettingsRepository
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(settingsRepo SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetOrCreate returns the user's settings, creating a default row on first
// contact.
func (s *SettingsService) GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrSettingsNotFound) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if err := s.settingsRepo.Create(ctx, userID); err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return s.settingsRepo.GetByUserID(ctx, userID)
}

// ToggleReminders flips the reminder preference and returns the new value.
func (s *SettingsService) ToggleReminders(ctx context.Context, userID int64) (bool, error) {
	settings, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}

	enabled := !settings.RemindersEnabled
	if err := s.settingsRepo.UpdateRemindersEnabled(ctx, userID, enabled); err != nil {
		return false, fmt.Errorf("update reminders: %w", err)
	}
	return enabled, nil
}

// SetLevelFilter sets the preferred proficiency level; empty means all.
func (s *SettingsService) SetLevelFilter(ctx context.Context, userID int64, level string) error {
	if level != "" && level != entities.LevelA1 && level != entities.LevelA2 {
		return fmt.Errorf("unknown level %q", level)
	}

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	if err := s.settingsRepo.UpdateLevelFilter(ctx, userID, level); err != nil {
		return fmt.Errorf("update level filter: %w", err)
	}
	return nil
}

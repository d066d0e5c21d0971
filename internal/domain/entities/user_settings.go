package entities

import "time"

// UserSettings stores per-user preferences. Defaults (reminders on, no level
// filter) come from the settings table's column defaults on first insert.
type UserSettings struct {
	UserID           int64
	RemindersEnabled bool
	LevelFilter      string // "A1", "A2", or "" for all levels
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	domain "github.com/geraldho81/classroom-manager/internal/domain/settings"
)

// SQLiteStore implements Store using SQLite. Timer presets and the
// per-date time-loss map are stored as JSON text columns.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new Settings store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUser retrieves the settings document for a user.
// PRE: userID is non-empty
// POST: Returns the document or an error if the user has none stored
func (s *SQLiteStore) GetByUser(ctx context.Context, userID string) (domain.Settings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, sound_enabled, volume, timer_presets, noise_threshold, dark_mode, time_loss_data
		FROM user_settings WHERE user_id = ?`, userID)

	var entity domain.Settings
	var soundEnabled, darkMode int
	var presetsJSON, timeLossJSON string
	err := row.Scan(&entity.ID, &entity.UserID, &soundEnabled, &entity.Volume,
		&presetsJSON, &entity.NoiseThreshold, &darkMode, &timeLossJSON)
	if err == sql.ErrNoRows {
		return domain.Settings{}, fmt.Errorf("settings not found: %w", err)
	}
	if err != nil {
		return domain.Settings{}, err
	}
	entity.SoundEnabled = soundEnabled != 0
	entity.DarkMode = darkMode != 0
	if err := json.Unmarshal([]byte(presetsJSON), &entity.TimerPresets); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to decode timer presets: %w", err)
	}
	if err := json.Unmarshal([]byte(timeLossJSON), &entity.TimeLoss); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to decode time loss data: %w", err)
	}
	return entity, nil
}

// Save persists a whole settings document, keyed on the owning user so a
// second save replaces the first.
// PRE: entity.ID and entity.UserID are non-empty
// POST: Exactly one row exists for the user, holding the full document
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Settings) error {
	presets := entity.TimerPresets
	if presets == nil {
		presets = []int{}
	}
	presetsJSON, err := json.Marshal(presets)
	if err != nil {
		return fmt.Errorf("failed to encode timer presets: %w", err)
	}
	timeLoss := entity.TimeLoss
	if timeLoss == nil {
		timeLoss = map[string]int{}
	}
	timeLossJSON, err := json.Marshal(timeLoss)
	if err != nil {
		return fmt.Errorf("failed to encode time loss data: %w", err)
	}

	query := `INSERT INTO user_settings
		(id, user_id, sound_enabled, volume, timer_presets, noise_threshold, dark_mode, time_loss_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			sound_enabled=excluded.sound_enabled,
			volume=excluded.volume,
			timer_presets=excluded.timer_presets,
			noise_threshold=excluded.noise_threshold,
			dark_mode=excluded.dark_mode,
			time_loss_data=excluded.time_loss_data`
	_, err = s.db.ExecContext(ctx, query,
		entity.ID,
		entity.UserID,
		boolToInt(entity.SoundEnabled),
		entity.Volume,
		string(presetsJSON),
		entity.NoiseThreshold,
		boolToInt(entity.DarkMode),
		string(timeLossJSON),
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/geraldho81/classroom-manager/internal/domain/settings"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// RestoreBackupInput carries the raw backup file and target class.
type RestoreBackupInput struct {
	ClassID string
	UserID  string
	Body    []byte
}

// RestoreBackupResult holds counts from a restore run.
type RestoreBackupResult struct {
	Students int
}

// SettingsReplacer swaps in a whole settings document.
type SettingsReplacer interface {
	Replace(doc settings.Settings) settings.Settings
}

// RestoreBackupDeps holds dependencies for RestoreBackup.
type RestoreBackupDeps struct {
	Importer RosterImporter
	Settings SettingsReplacer
}

var ErrInvalidBackup = errors.New("file is not a valid backup")

// ExecuteRestoreBackup replaces the class roster and the user's settings
// from a backup file. Like roster import this is destructive for the
// target class.
// PRE: Body is a BackupDocument produced by ExecuteExportBackup
// POST: Roster matches the backup; settings fields in the backup overwrite
// the current ones, clamped to their valid ranges
func ExecuteRestoreBackup(ctx context.Context, input RestoreBackupInput, deps RestoreBackupDeps) (RestoreBackupResult, error) {
	var doc BackupDocument
	if err := json.Unmarshal(input.Body, &doc); err != nil {
		return RestoreBackupResult{}, ErrInvalidBackup
	}
	if len(doc.Students) == 0 {
		return RestoreBackupResult{}, ErrInvalidBackup
	}

	var names []string
	for _, s := range doc.Students {
		if s.Name == "" || len(s.Name) > student.MaxNameLength {
			continue
		}
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return RestoreBackupResult{}, ErrInvalidBackup
	}

	imported, err := deps.Importer.ImportStudents(ctx, names)
	if err != nil {
		return RestoreBackupResult{}, err
	}

	restored := settings.Defaults(input.UserID)
	restored.SoundEnabled = doc.Settings.SoundEnabled
	restored.SetVolume(doc.Settings.Volume)
	restored.SetNoiseThreshold(doc.Settings.NoiseThreshold)
	if len(doc.Settings.TimerPresets) > 0 {
		restored.TimerPresets = nil
		for _, p := range doc.Settings.TimerPresets {
			if p > 0 {
				restored.AddTimerPreset(p)
			}
		}
	}
	deps.Settings.Replace(restored)

	slog.Info("import_event", "event", "backup_restored", "class_id", input.ClassID,
		"students", len(imported))
	return RestoreBackupResult{Students: len(imported)}, nil
}

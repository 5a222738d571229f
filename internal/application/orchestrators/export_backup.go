package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/settings"
	"github.com/geraldho81/classroom-manager/internal/domain/student"
)

// BackupDocument is the portable backup format: the selected class's
// roster plus the user's settings.
type BackupDocument struct {
	Students []BackupStudent `json:"students"`
	Settings BackupSettings  `json:"settings"`
}

// BackupStudent is one roster entry in a backup.
type BackupStudent struct {
	Name     string `json:"name"`
	Excluded bool   `json:"excluded,omitempty"`
}

// BackupSettings is the settings subset carried in a backup.
type BackupSettings struct {
	TimerPresets   []int   `json:"timerPresets"`
	NoiseThreshold int     `json:"noiseThreshold"`
	SoundEnabled   bool    `json:"soundEnabled"`
	Volume         float64 `json:"volume"`
}

// ExportBackupInput selects the class to back up.
type ExportBackupInput struct {
	ClassID string
	UserID  string
}

// ExportBackupResult carries the rendered backup file.
type ExportBackupResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// StudentStoreForBackup defines the student store interface for backups.
type StudentStoreForBackup interface {
	ListByClass(ctx context.Context, classID string) ([]student.Student, error)
}

// SettingsStoreForBackup defines the settings store interface for backups.
type SettingsStoreForBackup interface {
	GetByUser(ctx context.Context, userID string) (settings.Settings, error)
}

// ExportBackupDeps holds dependencies for ExportBackup.
type ExportBackupDeps struct {
	StudentStore  StudentStoreForBackup
	SettingsStore SettingsStoreForBackup
	Now           func() time.Time // nil means time.Now
}

// ExecuteExportBackup renders the class roster and settings as a JSON file.
// PRE: ClassID and UserID are non-empty
// POST: Body is a BackupDocument; a user with no stored settings gets the
// defaults
func ExecuteExportBackup(ctx context.Context, input ExportBackupInput, deps ExportBackupDeps) (ExportBackupResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	students, err := deps.StudentStore.ListByClass(ctx, input.ClassID)
	if err != nil {
		return ExportBackupResult{}, err
	}

	doc := BackupDocument{Students: []BackupStudent{}}
	for _, s := range students {
		doc.Students = append(doc.Students, BackupStudent{Name: s.Name, Excluded: s.Excluded})
	}

	current, err := deps.SettingsStore.GetByUser(ctx, input.UserID)
	if err != nil {
		current = settings.Defaults(input.UserID)
	}
	doc.Settings = BackupSettings{
		TimerPresets:   current.TimerPresets,
		NoiseThreshold: current.NoiseThreshold,
		SoundEnabled:   current.SoundEnabled,
		Volume:         current.Volume,
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ExportBackupResult{}, err
	}

	return ExportBackupResult{
		Filename:    fmt.Sprintf("classroom-manager-backup-%s.json", now().Format("2006-01-02")),
		ContentType: "application/json",
		Body:        body,
	}, nil
}

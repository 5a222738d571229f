// Package settingscache holds a user's settings document in memory and
// writes it back as a whole. Mutations are coalesced: a burst of slider
// moves or preset edits produces one store write after a short quiet
// period, not one write per change.
package settingscache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geraldho81/classroom-manager/internal/domain/settings"
)

// DefaultSaveDelay is the quiet period before a mutated document is
// written back.
const DefaultSaveDelay = 500 * time.Millisecond

// SaveTimeout bounds the background write triggered by the delay timer.
const saveTimeout = 5 * time.Second

// SettingsGateway is the storage surface the cache needs.
type SettingsGateway interface {
	GetByUser(ctx context.Context, userID string) (settings.Settings, error)
	Save(ctx context.Context, value settings.Settings) error
}

// Store caches one user's settings document. All methods are safe for
// concurrent use.
type Store struct {
	gateway   SettingsGateway
	userID    string
	saveDelay time.Duration

	mu     sync.Mutex
	doc    settings.Settings
	loaded bool
	dirty  bool
	timer  *time.Timer
}

// NewStore creates a settings cache for the given user.
func NewStore(gateway SettingsGateway, userID string) *Store {
	return &Store{
		gateway:   gateway,
		userID:    userID,
		saveDelay: DefaultSaveDelay,
	}
}

// SetSaveDelay overrides the write coalescing delay. Intended for tests.
func (s *Store) SetSaveDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveDelay = d
}

// Load fetches the stored document, falling back to defaults when the user
// has none. The defaults are not persisted until the first mutation.
// POST: Get returns a usable document
func (s *Store) Load(ctx context.Context) (settings.Settings, error) {
	s.mu.Lock()
	if s.loaded {
		doc := s.doc
		s.mu.Unlock()
		return doc, nil
	}
	s.mu.Unlock()

	doc, err := s.gateway.GetByUser(ctx, s.userID)
	if err != nil {
		doc = settings.Defaults(s.userID)
		doc.ID = uuid.NewString()
		slog.Info("settings_event", "event", "defaults_applied", "user_id", s.userID)
	}

	s.mu.Lock()
	if !s.loaded {
		s.doc = doc
		s.loaded = true
	}
	doc = s.doc
	s.mu.Unlock()
	return doc, nil
}

// Get returns the cached document.
// PRE: Load has been called
func (s *Store) Get() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Mutate applies fn to the document and schedules a write-back.
// PRE: Load has been called
// POST: The change is visible immediately; the store write follows after
// the quiet period
func (s *Store) Mutate(fn func(*settings.Settings)) settings.Settings {
	s.mu.Lock()
	fn(&s.doc)
	s.dirty = true
	doc := s.doc
	s.scheduleSaveLocked()
	s.mu.Unlock()
	return doc
}

// Replace swaps in a whole document, keeping the identity fields, and
// schedules a write-back. Used by backup restore.
func (s *Store) Replace(doc settings.Settings) settings.Settings {
	s.mu.Lock()
	doc.ID = s.doc.ID
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.UserID = s.userID
	s.doc = doc
	s.loaded = true
	s.dirty = true
	out := s.doc
	s.scheduleSaveLocked()
	s.mu.Unlock()
	return out
}

func (s *Store) scheduleSaveLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.saveDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.Flush(ctx); err != nil {
			slog.Warn("settings_event", "event", "save_failed", "user_id", s.userID, "error", err)
		}
	})
}

// Flush writes the document immediately when it has unsaved changes.
// POST: dirty is false on success
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	doc := s.doc
	s.mu.Unlock()

	if err := s.gateway.Save(ctx, doc); err != nil {
		return err
	}

	s.mu.Lock()
	// A mutation that raced the write stays dirty and will be flushed by
	// its own timer.
	if s.doc.ID == doc.ID && equalDocs(s.doc, doc) {
		s.dirty = false
	}
	s.mu.Unlock()
	slog.Debug("settings_event", "event", "saved", "user_id", s.userID)
	return nil
}

// Close flushes any pending changes and stops the timer.
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

func equalDocs(a, b settings.Settings) bool {
	if a.SoundEnabled != b.SoundEnabled || a.Volume != b.Volume ||
		a.NoiseThreshold != b.NoiseThreshold || a.DarkMode != b.DarkMode {
		return false
	}
	if len(a.TimerPresets) != len(b.TimerPresets) || len(a.TimeLoss) != len(b.TimeLoss) {
		return false
	}
	for i := range a.TimerPresets {
		if a.TimerPresets[i] != b.TimerPresets[i] {
			return false
		}
	}
	for k, v := range a.TimeLoss {
		if b.TimeLoss[k] != v {
			return false
		}
	}
	return true
}

package settingscache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/settings"
)

// fakeGateway implements SettingsGateway and counts writes.
type fakeGateway struct {
	mu     sync.Mutex
	stored map[string]settings.Settings
	saves  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{stored: make(map[string]settings.Settings)}
}

func (f *fakeGateway) GetByUser(ctx context.Context, userID string) (settings.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.stored[userID]
	if !ok {
		return settings.Settings{}, errors.New("settings not found")
	}
	return doc, nil
}

func (f *fakeGateway) Save(ctx context.Context, doc settings.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[doc.UserID] = doc
	f.saves++
	return nil
}

func (f *fakeGateway) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeGateway) storedFor(userID string) (settings.Settings, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.stored[userID]
	return doc, ok
}

// TestLoad_MissAppliesDefaults tests the lazy-create path.
func TestLoad_MissAppliesDefaults(t *testing.T) {
	gateway := newFakeGateway()
	cache := NewStore(gateway, "u1")

	doc, err := cache.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.UserID != "u1" || doc.ID == "" {
		t.Errorf("doc = %+v, want defaults with generated ID for u1", doc)
	}
	if doc.Volume != settings.DefaultVolume {
		t.Errorf("Volume = %v, want default", doc.Volume)
	}

	// Defaults are not written back until the first mutation.
	if _, ok := gateway.storedFor("u1"); ok {
		t.Error("defaults were persisted on load")
	}
}

// TestLoad_ReturnsStored tests the hit path.
func TestLoad_ReturnsStored(t *testing.T) {
	gateway := newFakeGateway()
	gateway.stored["u1"] = settings.Settings{ID: "doc-1", UserID: "u1", Volume: 0.9, NoiseThreshold: 40}
	cache := NewStore(gateway, "u1")

	doc, err := cache.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.ID != "doc-1" || doc.Volume != 0.9 {
		t.Errorf("doc = %+v, want the stored document", doc)
	}
}

// TestMutate_CoalescesWrites tests that a burst of mutations produces one
// store write.
func TestMutate_CoalescesWrites(t *testing.T) {
	gateway := newFakeGateway()
	cache := NewStore(gateway, "u1")
	cache.SetSaveDelay(30 * time.Millisecond)
	cache.Load(context.Background())

	for i := 1; i <= 5; i++ {
		seconds := i * 10
		cache.Mutate(func(s *settings.Settings) {
			s.AddTimerPreset(seconds)
		})
	}

	// The change is visible immediately.
	if got := cache.Get(); len(got.TimerPresets) != len(settings.DefaultTimerPresets)+5 {
		t.Errorf("cached presets = %v, want 5 additions", got.TimerPresets)
	}
	// But nothing has been written yet.
	if gateway.saveCount() != 0 {
		t.Errorf("saves = %d before the quiet period, want 0", gateway.saveCount())
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && gateway.saveCount() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if gateway.saveCount() != 1 {
		t.Errorf("saves = %d after the quiet period, want 1", gateway.saveCount())
	}

	stored, _ := gateway.storedFor("u1")
	if len(stored.TimerPresets) != len(settings.DefaultTimerPresets)+5 {
		t.Errorf("stored presets = %v, want all 5 additions in one write", stored.TimerPresets)
	}
}

// TestFlush tests the immediate write path and the dirty check.
func TestFlush(t *testing.T) {
	gateway := newFakeGateway()
	cache := NewStore(gateway, "u1")
	cache.Load(context.Background())

	// Flushing a clean cache writes nothing.
	if err := cache.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if gateway.saveCount() != 0 {
		t.Errorf("saves = %d after clean flush, want 0", gateway.saveCount())
	}

	cache.Mutate(func(s *settings.Settings) { s.DarkMode = true })
	if err := cache.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if gateway.saveCount() != 1 {
		t.Fatalf("saves = %d after dirty flush, want 1", gateway.saveCount())
	}
	stored, _ := gateway.storedFor("u1")
	if !stored.DarkMode {
		t.Error("stored document missing the mutation")
	}

	// A second flush with no further changes is a no-op.
	if err := cache.Flush(context.Background()); err != nil {
		t.Fatalf("second Flush() error = %v", err)
	}
	if gateway.saveCount() != 1 {
		t.Errorf("saves = %d after redundant flush, want 1", gateway.saveCount())
	}
}

// TestReplace tests the whole-document swap used by backup restore.
func TestReplace(t *testing.T) {
	gateway := newFakeGateway()
	gateway.stored["u1"] = settings.Settings{ID: "doc-1", UserID: "u1"}
	cache := NewStore(gateway, "u1")
	cache.Load(context.Background())

	incoming := settings.Defaults("someone-else")
	incoming.Volume = 0.25
	incoming.DarkMode = true

	replaced := cache.Replace(incoming)

	if replaced.ID != "doc-1" {
		t.Errorf("ID = %q, want the existing document ID kept", replaced.ID)
	}
	if replaced.UserID != "u1" {
		t.Errorf("UserID = %q, want u1 regardless of the incoming document", replaced.UserID)
	}
	if replaced.Volume != 0.25 || !replaced.DarkMode {
		t.Errorf("replaced = %+v, want incoming values", replaced)
	}

	if err := cache.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	stored, _ := gateway.storedFor("u1")
	if stored.Volume != 0.25 {
		t.Errorf("stored Volume = %v, want 0.25", stored.Volume)
	}
}

// TestFlush_SaveError tests that a failed write leaves the cache dirty.
func TestFlush_SaveError(t *testing.T) {
	gateway := &failingGateway{failing: true}
	cache := NewStore(gateway, "u1")
	cache.Load(context.Background())
	cache.Mutate(func(s *settings.Settings) { s.DarkMode = true })

	if err := cache.Flush(context.Background()); err == nil {
		t.Fatal("Flush() error = nil, want the gateway error")
	}

	// The document is still dirty, so a later flush retries.
	gateway.failing = false
	if err := cache.Flush(context.Background()); err != nil {
		t.Fatalf("retry Flush() error = %v", err)
	}
	if gateway.saves != 1 {
		t.Errorf("saves = %d after retry, want 1", gateway.saves)
	}
}

type failingGateway struct {
	failing bool
	saves   int
}

func (f *failingGateway) GetByUser(ctx context.Context, userID string) (settings.Settings, error) {
	return settings.Settings{}, errors.New("settings not found")
}

func (f *failingGateway) Save(ctx context.Context, doc settings.Settings) error {
	if f.failing {
		return errors.New("write failed")
	}
	f.saves++
	return nil
}

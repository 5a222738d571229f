// Package registry holds a user's class list plus which class is selected.
// The selection survives restarts through the device preference store and
// is always a member of the current list or empty, never a dangling ID.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geraldho81/classroom-manager/internal/domain/classroom"
)

// DefaultFetchTimeout bounds how long Fetch waits for the class list before
// proceeding with an empty registry.
const DefaultFetchTimeout = 5 * time.Second

// ErrNotInRegistry is returned when an operation names a class that is not
// in the fetched list.
var ErrNotInRegistry = errors.New("class is not in the registry")

// ErrFetchTimeout is returned when the class list does not arrive before
// the fetch deadline.
var ErrFetchTimeout = errors.New("class list fetch timed out")

// ClassGateway is the storage surface the registry needs.
type ClassGateway interface {
	ListByUser(ctx context.Context, userID string) ([]classroom.ClassRoom, error)
	Save(ctx context.Context, value classroom.ClassRoom) error
	Delete(ctx context.Context, id string) error
}

// Prefs persists the selected class across restarts.
type Prefs interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Store holds the class list and selection for one user.
// INVARIANT: selectedID is "" or the ID of a class in classes
type Store struct {
	classes      ClassGateway
	prefs        Prefs
	userID       string
	fetchTimeout time.Duration

	mu         sync.Mutex
	list       []classroom.ClassRoom
	selectedID string
	loaded     bool
}

// NewStore creates a registry for the given user.
func NewStore(classes ClassGateway, prefs Prefs, userID string) *Store {
	return &Store{
		classes:      classes,
		prefs:        prefs,
		userID:       userID,
		fetchTimeout: DefaultFetchTimeout,
	}
}

// SetFetchTimeout overrides the fetch deadline. Intended for tests.
func (s *Store) SetFetchTimeout(d time.Duration) {
	s.fetchTimeout = d
}

func (s *Store) prefKey() string {
	return "selected-class:" + s.userID
}

// Fetch loads the class list and restores the selection. A failed or slow
// fetch leaves the prior list, selection, and persisted preference exactly
// as they were; only a successful result replaces state.
// POST: On success the selection is the persisted class when still listed,
// else the newest class, else empty
func (s *Store) Fetch(ctx context.Context) ([]classroom.ClassRoom, error) {
	type fetchResult struct {
		list []classroom.ClassRoom
		err  error
	}
	results := make(chan fetchResult, 1)
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	go func() {
		defer cancel()
		list, err := s.classes.ListByUser(fetchCtx, s.userID)
		results <- fetchResult{list: list, err: err}
	}()

	var list []classroom.ClassRoom
	select {
	case r := <-results:
		if r.err != nil {
			slog.Warn("registry_event", "event", "fetch_failed", "user_id", s.userID, "error", r.err)
			s.markLoaded()
			return s.List(), r.err
		}
		list = r.list
	case <-fetchCtx.Done():
		slog.Warn("registry_event", "event", "fetch_timeout", "user_id", s.userID, "timeout", s.fetchTimeout)
		s.markLoaded()
		return s.List(), ErrFetchTimeout
	}

	s.mu.Lock()
	s.list = list
	s.loaded = true
	s.restoreSelectionLocked()
	s.mu.Unlock()

	slog.Info("registry_event", "event", "fetched", "user_id", s.userID, "classes", len(list))
	return list, nil
}

func (s *Store) markLoaded() {
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
}

// Loaded reports whether a fetch attempt has completed, successfully or
// not. Callers show a loading indicator until this turns true.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// restoreSelectionLocked picks the selection after the list changes:
// the persisted preference when it names a listed class, else the first
// (newest) class, else nothing. The preference is rewritten to match.
func (s *Store) restoreSelectionLocked() {
	if persisted, ok := s.prefs.Get(s.prefKey()); ok {
		if s.memberLocked(persisted) {
			s.selectedID = persisted
			return
		}
	}
	if len(s.list) > 0 {
		s.selectedID = s.list[0].ID
		if err := s.prefs.Set(s.prefKey(), s.selectedID); err != nil {
			slog.Warn("registry_event", "event", "pref_write_failed", "error", err)
		}
		return
	}
	s.selectedID = ""
	if err := s.prefs.Delete(s.prefKey()); err != nil {
		slog.Warn("registry_event", "event", "pref_write_failed", "error", err)
	}
}

func (s *Store) memberLocked(id string) bool {
	for _, c := range s.list {
		if c.ID == id {
			return true
		}
	}
	return false
}

// List returns the fetched classes, newest first.
func (s *Store) List() []classroom.ClassRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]classroom.ClassRoom, len(s.list))
	copy(out, s.list)
	return out
}

// Selected returns the selected class, or ok=false when none is selected.
func (s *Store) Selected() (classroom.ClassRoom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.list {
		if c.ID == s.selectedID {
			return c, true
		}
	}
	return classroom.ClassRoom{}, false
}

// Select makes the given class current and persists the choice.
// PRE: id names a class in the fetched list
// POST: Selected() returns the class; the preference holds its ID
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.memberLocked(id) {
		return ErrNotInRegistry
	}
	s.selectedID = id
	if err := s.prefs.Set(s.prefKey(), id); err != nil {
		slog.Warn("registry_event", "event", "pref_write_failed", "error", err)
	}
	return nil
}

// Create validates, persists, and selects a new class.
// POST: The class is first in the list and selected
func (s *Store) Create(ctx context.Context, name string) (classroom.ClassRoom, error) {
	c := classroom.ClassRoom{
		ID:        uuid.NewString(),
		UserID:    s.userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := c.Validate(); err != nil {
		return classroom.ClassRoom{}, err
	}
	if err := s.classes.Save(ctx, c); err != nil {
		return classroom.ClassRoom{}, err
	}

	s.mu.Lock()
	s.list = append([]classroom.ClassRoom{c}, s.list...)
	s.selectedID = c.ID
	if err := s.prefs.Set(s.prefKey(), c.ID); err != nil {
		slog.Warn("registry_event", "event", "pref_write_failed", "error", err)
	}
	s.mu.Unlock()

	slog.Info("registry_event", "event", "class_created", "class_id", c.ID, "user_id", s.userID)
	return c, nil
}

// Rename changes a class's name.
// PRE: id names a class in the fetched list; name passes validation
func (s *Store) Rename(ctx context.Context, id, name string) (classroom.ClassRoom, error) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.list {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return classroom.ClassRoom{}, ErrNotInRegistry
	}
	updated := s.list[idx]
	updated.Name = name
	s.mu.Unlock()

	if err := updated.Validate(); err != nil {
		return classroom.ClassRoom{}, err
	}
	if err := s.classes.Save(ctx, updated); err != nil {
		return classroom.ClassRoom{}, err
	}

	s.mu.Lock()
	if idx < len(s.list) && s.list[idx].ID == id {
		s.list[idx] = updated
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes a class. When the selected class is deleted the selection
// falls back to the newest remaining class, or empty.
// PRE: id names a class in the fetched list
// POST: The class is gone and the selection invariant holds
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if !s.memberLocked(id) {
		s.mu.Unlock()
		return ErrNotInRegistry
	}
	s.mu.Unlock()

	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.list[:0]
	for _, c := range s.list {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.list = kept
	if s.selectedID == id {
		if err := s.prefs.Delete(s.prefKey()); err != nil {
			slog.Warn("registry_event", "event", "pref_write_failed", "error", err)
		}
		s.restoreSelectionLocked()
	}
	s.mu.Unlock()

	slog.Info("registry_event", "event", "class_deleted", "class_id", id, "user_id", s.userID)
	return nil
}

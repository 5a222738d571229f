// Package session holds the authenticated-user state for one device and
// manages its bootstrap. Bootstrap races the backing auth check against a
// deadline so a slow or unreachable backend never blocks startup: past the
// deadline the store proceeds signed out and a late answer is discarded.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/profile"
)

// DefaultBootstrapTimeout bounds how long Initialize waits for the auth
// check before proceeding signed out.
const DefaultBootstrapTimeout = 3 * time.Second

// State is the store's authentication state.
type State int

const (
	// StateUnknown means Initialize has not completed yet.
	StateUnknown State = iota
	// StateAnonymous means no user is signed in.
	StateAnonymous
	// StateAuthenticated means a user is signed in.
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User identifies the signed-in user.
type User struct {
	ID    string
	Email string
}

// EventType distinguishes auth events.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is delivered to subscribers when the auth state changes.
type Event struct {
	Type EventType
	User User
}

// AuthGateway is the backing auth provider consulted during bootstrap and
// sign-out.
type AuthGateway interface {
	// CurrentUser reports the user attached to the current credentials,
	// or ok=false when none is.
	CurrentUser(ctx context.Context) (u User, ok bool, err error)
	SignOut(ctx context.Context) error
}

// ProfileGateway loads the display profile for a signed-in user.
type ProfileGateway interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

// Prefs is the device-local preference store cleared on sign-out.
type Prefs interface {
	Clear() error
}

// Store tracks who is signed in. All methods are safe for concurrent use.
type Store struct {
	auth             AuthGateway
	profiles         ProfileGateway
	prefs            Prefs
	bootstrapTimeout time.Duration

	mu            sync.Mutex
	state         State
	user          User
	profile       profile.Profile
	profileLoaded bool
	initialized   bool
	initDone      chan struct{}
	closed        bool
	events        chan Event
}

// NewStore creates a session store in the unknown state.
func NewStore(auth AuthGateway, profiles ProfileGateway, prefs Prefs) *Store {
	return &Store{
		auth:             auth,
		profiles:         profiles,
		prefs:            prefs,
		bootstrapTimeout: DefaultBootstrapTimeout,
		state:            StateUnknown,
		events:           make(chan Event, 16),
	}
}

// SetBootstrapTimeout overrides the bootstrap deadline. Intended for tests.
func (s *Store) SetBootstrapTimeout(d time.Duration) {
	s.bootstrapTimeout = d
}

// Initialize resolves the initial auth state. Concurrent callers share one
// auth check; later callers get the cached result.
// POST: State is StateAuthenticated or StateAnonymous, never StateUnknown
// INVARIANT: A check that answers after the deadline never changes state
func (s *Store) Initialize(ctx context.Context) State {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return StateAnonymous
	}
	if s.initialized {
		st := s.state
		s.mu.Unlock()
		return st
	}
	if s.initDone != nil {
		done := s.initDone
		s.mu.Unlock()
		<-done
		s.mu.Lock()
		st := s.state
		s.mu.Unlock()
		return st
	}
	done := make(chan struct{})
	s.initDone = done
	s.mu.Unlock()

	type checkResult struct {
		user User
		ok   bool
		err  error
	}
	// Buffered so the goroutine can always deliver and exit, even when the
	// deadline fires first and nobody reads the result.
	results := make(chan checkResult, 1)
	checkCtx, cancel := context.WithTimeout(ctx, s.bootstrapTimeout)
	go func() {
		defer cancel()
		u, ok, err := s.auth.CurrentUser(checkCtx)
		results <- checkResult{user: u, ok: ok, err: err}
	}()

	state := StateAnonymous
	var user User
	select {
	case r := <-results:
		if r.err != nil {
			slog.Warn("session_event", "event", "bootstrap_failed", "error", r.err)
		} else if r.ok {
			state = StateAuthenticated
			user = r.user
		}
	case <-checkCtx.Done():
		slog.Warn("session_event", "event", "bootstrap_timeout", "timeout", s.bootstrapTimeout)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(done)
		return StateAnonymous
	}
	s.state = state
	s.user = user
	s.initialized = true
	s.mu.Unlock()
	close(done)

	slog.Info("session_event", "event", "bootstrap_done", "state", state.String())

	if state == StateAuthenticated {
		go s.loadProfile(user.ID)
		s.emit(Event{Type: EventSignedIn, User: user})
	}
	return state
}

// loadProfile fetches the display profile in the background. The result is
// applied only while the same user is still signed in.
func (s *Store) loadProfile(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.bootstrapTimeout)
	defer cancel()

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		slog.Warn("session_event", "event", "profile_fetch_failed", "user_id", userID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateAuthenticated || s.user.ID != userID {
		return
	}
	s.profile = p
	s.profileLoaded = true
}

// SignIn records a successful authentication, for use after the login flow
// completes.
// POST: State is StateAuthenticated and subscribers are notified
func (s *Store) SignIn(user User) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = StateAuthenticated
	s.user = user
	s.profile = profile.Profile{}
	s.profileLoaded = false
	s.initialized = true
	s.mu.Unlock()

	slog.Info("session_event", "event", "signed_in", "user_id", user.ID)
	go s.loadProfile(user.ID)
	s.emit(Event{Type: EventSignedIn, User: user})
}

// SignOut clears local state immediately, then tells the backend. Local
// state is cleared even when the backend call fails: the device is signed
// out no matter what.
// POST: State is StateAnonymous, prefs are cleared, subscribers notified
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	user := s.user
	s.state = StateAnonymous
	s.user = User{}
	s.profile = profile.Profile{}
	s.profileLoaded = false
	s.initialized = true
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.Clear(); err != nil {
			slog.Warn("session_event", "event", "prefs_clear_failed", "error", err)
		}
	}
	s.emit(Event{Type: EventSignedOut, User: user})

	if err := s.auth.SignOut(ctx); err != nil {
		slog.Warn("session_event", "event", "remote_signout_failed", "error", err)
	}
	slog.Info("session_event", "event", "signed_out", "user_id", user.ID)
}

// State returns the current auth state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the signed-in user, or ok=false when anonymous.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.state == StateAuthenticated
}

// Profile returns the loaded display profile, or ok=false while the
// background fetch has not landed.
func (s *Store) Profile() (profile.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, s.profileLoaded
}

// Events returns the auth event stream. Events are dropped rather than
// blocking when the subscriber falls behind.
func (s *Store) Events() <-chan Event {
	return s.events
}

func (s *Store) emit(e Event) {
	select {
	case s.events <- e:
	default:
	}
}

// Close tears the store down. In-flight bootstrap or profile results that
// land after Close are discarded.
// POST: Subsequent Initialize calls return StateAnonymous without checking
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/geraldho81/classroom-manager/internal/domain/profile"
)

// fakeAuth implements AuthGateway with a configurable answer and delay.
type fakeAuth struct {
	user     User
	ok       bool
	err      error
	delay    time.Duration
	signOuts int
	mu       sync.Mutex
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (User, bool, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return User{}, false, ctx.Err()
		}
	}
	return f.user, f.ok, f.err
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	return nil
}

// fakeProfiles implements ProfileGateway.
type fakeProfiles struct {
	profile profile.Profile
	err     error
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	if f.err != nil {
		return profile.Profile{}, f.err
	}
	return f.profile, nil
}

// fakePrefs implements Prefs and records clears.
type fakePrefs struct {
	mu     sync.Mutex
	clears int
}

func (f *fakePrefs) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

func (f *fakePrefs) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// TestInitialize_Authenticated tests the happy bootstrap path.
func TestInitialize_Authenticated(t *testing.T) {
	auth := &fakeAuth{user: User{ID: "u1", Email: "teacher@example.com"}, ok: true}
	store := NewStore(auth, &fakeProfiles{}, &fakePrefs{})

	state := store.Initialize(context.Background())
	if state != StateAuthenticated {
		t.Fatalf("Initialize() = %v, want StateAuthenticated", state)
	}

	user, ok := store.CurrentUser()
	if !ok || user.ID != "u1" {
		t.Errorf("CurrentUser() = %+v, %v; want u1, true", user, ok)
	}

	select {
	case e := <-store.Events():
		if e.Type != EventSignedIn || e.User.ID != "u1" {
			t.Errorf("event = %+v, want signed_in for u1", e)
		}
	default:
		t.Error("no signed_in event emitted")
	}
}

// TestInitialize_Anonymous tests bootstrap with no credentials.
func TestInitialize_Anonymous(t *testing.T) {
	store := NewStore(&fakeAuth{ok: false}, &fakeProfiles{}, &fakePrefs{})

	if state := store.Initialize(context.Background()); state != StateAnonymous {
		t.Fatalf("Initialize() = %v, want StateAnonymous", state)
	}
	if _, ok := store.CurrentUser(); ok {
		t.Error("CurrentUser() ok = true while anonymous")
	}
}

// TestInitialize_Timeout tests that a slow auth check loses the race and the
// store proceeds signed out.
func TestInitialize_Timeout(t *testing.T) {
	auth := &fakeAuth{user: User{ID: "u1"}, ok: true, delay: 500 * time.Millisecond}
	store := NewStore(auth, &fakeProfiles{}, &fakePrefs{})
	store.SetBootstrapTimeout(10 * time.Millisecond)

	start := time.Now()
	state := store.Initialize(context.Background())
	elapsed := time.Since(start)

	if state != StateAnonymous {
		t.Fatalf("Initialize() = %v, want StateAnonymous on timeout", state)
	}
	if elapsed > 400*time.Millisecond {
		t.Errorf("Initialize() took %v, did not honor the deadline", elapsed)
	}

	// A late answer must not flip the state afterwards.
	time.Sleep(600 * time.Millisecond)
	if state := store.State(); state != StateAnonymous {
		t.Errorf("State() = %v after late answer, want StateAnonymous", state)
	}
}

// TestInitialize_Error tests that an auth check failure means anonymous.
func TestInitialize_Error(t *testing.T) {
	store := NewStore(&fakeAuth{err: errors.New("backend down")}, &fakeProfiles{}, &fakePrefs{})

	if state := store.Initialize(context.Background()); state != StateAnonymous {
		t.Fatalf("Initialize() = %v, want StateAnonymous on error", state)
	}
}

// TestInitialize_SingleFlight tests that concurrent initializers share one
// auth check.
func TestInitialize_SingleFlight(t *testing.T) {
	var calls int
	var mu sync.Mutex
	auth := &countingAuth{onCall: func() {
		mu.Lock()
		calls++
		mu.Unlock()
	}}
	store := NewStore(auth, &fakeProfiles{}, &fakePrefs{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if state := store.Initialize(context.Background()); state != StateAuthenticated {
				t.Errorf("Initialize() = %v, want StateAuthenticated", state)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("auth check ran %d times, want 1", calls)
	}
}

type countingAuth struct {
	onCall func()
}

func (c *countingAuth) CurrentUser(ctx context.Context) (User, bool, error) {
	c.onCall()
	time.Sleep(20 * time.Millisecond)
	return User{ID: "u1"}, true, nil
}

func (c *countingAuth) SignOut(ctx context.Context) error { return nil }

// TestProfileLoad tests the background profile fetch.
func TestProfileLoad(t *testing.T) {
	profiles := &fakeProfiles{profile: profile.Profile{ID: "u1", FirstName: "Demo", LastName: "Teacher"}}
	store := NewStore(&fakeAuth{user: User{ID: "u1"}, ok: true}, profiles, &fakePrefs{})

	store.Initialize(context.Background())

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if p, ok := store.Profile(); ok {
			if p.FirstName != "Demo" {
				t.Errorf("profile FirstName = %q, want Demo", p.FirstName)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("profile never loaded")
}

// TestSignOut tests local teardown, pref clearing and event delivery.
func TestSignOut(t *testing.T) {
	auth := &fakeAuth{user: User{ID: "u1"}, ok: true}
	prefs := &fakePrefs{}
	store := NewStore(auth, &fakeProfiles{}, prefs)
	store.Initialize(context.Background())
	<-store.Events() // drain the signed_in event

	store.SignOut(context.Background())

	if state := store.State(); state != StateAnonymous {
		t.Errorf("State() = %v after SignOut, want StateAnonymous", state)
	}
	if _, ok := store.CurrentUser(); ok {
		t.Error("CurrentUser() ok = true after SignOut")
	}
	if prefs.clearCount() != 1 {
		t.Errorf("prefs cleared %d times, want 1", prefs.clearCount())
	}

	select {
	case e := <-store.Events():
		if e.Type != EventSignedOut || e.User.ID != "u1" {
			t.Errorf("event = %+v, want signed_out for u1", e)
		}
	default:
		t.Error("no signed_out event emitted")
	}
}

// TestClose tests that a closed store refuses to bootstrap.
func TestClose(t *testing.T) {
	store := NewStore(&fakeAuth{user: User{ID: "u1"}, ok: true}, &fakeProfiles{}, &fakePrefs{})
	store.Close()

	if state := store.Initialize(context.Background()); state != StateAnonymous {
		t.Errorf("Initialize() = %v after Close, want StateAnonymous", state)
	}
	if state := store.State(); state != StateUnknown {
		t.Errorf("State() = %v after Close without init, want StateUnknown", state)
	}
}

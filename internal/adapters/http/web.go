package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/email"
	"github.com/geraldho81/classroom-manager/internal/adapters/http/middleware"
	"github.com/geraldho81/classroom-manager/internal/adapters/http/perf"
	"github.com/geraldho81/classroom-manager/internal/adapters/prefs"
	accountStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/account"
	attendanceStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/attendance"
	classroomStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/classroom"
	noteStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/note"
	profileStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/profile"
	settingsStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/settings"
	studentStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/student"
	tokenStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/token"
	"github.com/geraldho81/classroom-manager/internal/application/settingscache"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	ProfileStore    profileStore.Store
	ClassStore      classroomStore.Store
	StudentStore    studentStore.Store
	AttendanceStore attendanceStore.Store
	NoteStore       noteStore.Store
	SettingsStore   settingsStore.Store
	TokenStore      tokenStore.Store
}

// loadCSRFKey reads the CSRF secret from CLASSROOM_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("CLASSROOM_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("CLASSROOM_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("CLASSROOM_ENV") == "production" {
		log.Fatal("CLASSROOM_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set CLASSROOM_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global device preference store (set by NewMux)
var devicePrefs *prefs.Store

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Base URL used in password reset links
var resetBaseURL string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, baseURL string) {
	emailSender = sender
	resetBaseURL = baseURL
}

// settingsCaches keeps one debounced settings cache per user so writes
// coalesce across requests.
var (
	settingsCachesMu sync.Mutex
	settingsCaches   map[string]*settingscache.Store
)

func settingsCacheFor(userID string) *settingscache.Store {
	settingsCachesMu.Lock()
	defer settingsCachesMu.Unlock()
	if c, ok := settingsCaches[userID]; ok {
		return c
	}
	c := settingscache.NewStore(stores.SettingsStore, userID)
	settingsCaches[userID] = c
	return c
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, devicePrefStore *prefs.Store, collector *perf.Collector) http.Handler {
	stores = s
	devicePrefs = devicePrefStore
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	settingsCaches = make(map[string]*settingscache.Store)
	middleware.SecureCookies = os.Getenv("CLASSROOM_ENV") == "production"
	if emailSender == nil {
		emailSender = email.NewNoopSender()
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

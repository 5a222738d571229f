package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "github.com/geraldho81/classroom-manager/internal/adapters/email"
	web "github.com/geraldho81/classroom-manager/internal/adapters/http"
	"github.com/geraldho81/classroom-manager/internal/adapters/http/perf"
	"github.com/geraldho81/classroom-manager/internal/adapters/prefs"
	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	accountStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/account"
	attendanceStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/attendance"
	classroomStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/classroom"
	noteStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/note"
	profileStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/profile"
	settingsStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/settings"
	studentStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/student"
	tokenStore "github.com/geraldho81/classroom-manager/internal/adapters/storage/token"
	"github.com/geraldho81/classroom-manager/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("CLASSROOM_DB", "classroom.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		ProfileStore:    profileStore.NewSQLiteStore(timedDB),
		ClassStore:      classroomStore.NewSQLiteStore(timedDB),
		StudentStore:    studentStore.NewSQLiteStore(timedDB),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
		NoteStore:       noteStore.NewSQLiteStore(timedDB),
		SettingsStore:   settingsStore.NewSQLiteStore(timedDB),
		TokenStore:      tokenStore.NewSQLiteStore(timedDB),
	}

	// Device preferences (selected class per user)
	prefsPath := envOrDefault("CLASSROOM_PREFS_FILE", "classroom-prefs.json")
	devicePrefs := prefs.NewStore(prefsPath)

	// Seed a demo teacher account in development so the app is usable
	// immediately after first start
	if os.Getenv("CLASSROOM_ENV") != "production" {
		seedEmail := envOrDefault("CLASSROOM_SEED_EMAIL", "teacher@example.com")
		seedPassword := envOrDefault("CLASSROOM_SEED_PASSWORD", "classroom-dev")
		if _, err := acctStore.GetByEmail(context.Background(), seedEmail); err != nil {
			_, err := orchestrators.ExecuteRegister(context.Background(), orchestrators.RegisterInput{
				Email:     seedEmail,
				Password:  seedPassword,
				FirstName: "Demo",
				LastName:  "Teacher",
			}, orchestrators.RegisterDeps{
				AccountStore:  acctStore,
				ProfileStore:  stores.ProfileStore,
				SettingsStore: stores.SettingsStore,
			})
			if err != nil {
				log.Fatalf("failed to seed demo account: %v", err)
			}
			log.Printf("Seeded demo account %s (dev mode)", seedEmail)
		}
	}

	// Configure email sender
	baseURL := envOrDefault("CLASSROOM_BASE_URL", "http://localhost:8080")
	resendKey := os.Getenv("CLASSROOM_RESEND_KEY")
	emailFrom := envOrDefault("CLASSROOM_RESEND_FROM", "Classroom Manager <noreply@classroommanager.app>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), baseURL)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), baseURL)
		if os.Getenv("CLASSROOM_ENV") == "production" {
			log.Println("WARNING: CLASSROOM_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set CLASSROOM_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux(stores, devicePrefs, collector)

	// Start server
	addr := envOrDefault("CLASSROOM_ADDR", ":8080")
	log.Printf("Classroom Manager %s starting on %s (env=%s)", version, addr, envOrDefault("CLASSROOM_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

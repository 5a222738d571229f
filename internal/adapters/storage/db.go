package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled, foreign keys enforced
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Cascading deletes (class -> students/notes, student -> attendance)
	// depend on foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS profile (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (id) REFERENCES account(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS class (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES account(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		class_id TEXT NOT NULL,
		name TEXT NOT NULL,
		excluded INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (class_id) REFERENCES class(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		UNIQUE (student_id, date),
		FOREIGN KEY (student_id) REFERENCES student(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS note (
		id TEXT PRIMARY KEY,
		class_id TEXT NOT NULL,
		text TEXT NOT NULL,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (class_id) REFERENCES class(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS user_settings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		sound_enabled INTEGER NOT NULL DEFAULT 1,
		volume REAL NOT NULL DEFAULT 0.5,
		timer_presets TEXT NOT NULL DEFAULT '[]',
		noise_threshold INTEGER NOT NULL DEFAULT 70,
		dark_mode INTEGER NOT NULL DEFAULT 0,
		time_loss_data TEXT NOT NULL DEFAULT '{}',
		FOREIGN KEY (user_id) REFERENCES account(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS reset_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id) ON DELETE CASCADE
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	domain "github.com/geraldho81/classroom-manager/internal/domain/profile"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new Profile store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, created_at FROM profile WHERE id = ?", id)

	var entity domain.Profile
	var createdAt string
	err := row.Scan(&entity.ID, &entity.FirstName, &entity.LastName, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	if err != nil {
		return domain.Profile{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Profile) error {
	query := `INSERT INTO profile (id, first_name, last_name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET first_name=excluded.first_name, last_name=excluded.last_name`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.FirstName,
		entity.LastName,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

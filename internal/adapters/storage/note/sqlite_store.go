package note

import (
	"context"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	domain "github.com/geraldho81/classroom-manager/internal/domain/note"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new Note store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListByClass retrieves all notes for a class, newest first.
// PRE: classID is non-empty
// POST: Returns notes ordered by creation time descending
func (s *SQLiteStore) ListByClass(ctx context.Context, classID string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, class_id, text, date, created_at FROM note WHERE class_id = ? ORDER BY created_at DESC", classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Note
	for rows.Next() {
		var entity domain.Note
		var createdAt string
		if err := rows.Scan(&entity.ID, &entity.ClassID, &entity.Text, &entity.Date, &createdAt); err != nil {
			return nil, err
		}
		entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Note to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Note) error {
	query := `INSERT INTO note (id, class_id, text, date, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text=excluded.text`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.ClassID,
		entity.Text,
		entity.Date,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a Note from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM note WHERE id = ?", id)
	return err
}

// DeleteByClass removes every note for a class.
// PRE: classID is non-empty
// POST: No note rows remain for the class
func (s *SQLiteStore) DeleteByClass(ctx context.Context, classID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM note WHERE class_id = ?", classID)
	return err
}

package classroom

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	domain "github.com/geraldho81/classroom-manager/internal/domain/classroom"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ClassRoom store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanClass(row interface{ Scan(...any) error }) (domain.ClassRoom, error) {
	var entity domain.ClassRoom
	var createdAt string
	if err := row.Scan(&entity.ID, &entity.UserID, &entity.Name, &createdAt); err != nil {
		return domain.ClassRoom{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}

// GetByID retrieves a ClassRoom by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.ClassRoom, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, created_at FROM class WHERE id = ?", id)
	entity, err := scanClass(row)
	if err == sql.ErrNoRows {
		return domain.ClassRoom{}, fmt.Errorf("class not found: %w", err)
	}
	return entity, err
}

// ListByUser retrieves all classes owned by a user, newest first.
// PRE: userID is non-empty
// POST: Returns classes ordered by creation time descending
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]domain.ClassRoom, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name, created_at FROM class WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ClassRoom
	for rows.Next() {
		entity, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a ClassRoom to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.ClassRoom) error {
	query := `INSERT INTO class (id, user_id, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.UserID,
		entity.Name,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a ClassRoom from the database. Students, attendance and
// notes cascade through foreign keys.
// PRE: id is non-empty
// POST: Entity with given id and all dependent rows are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM class WHERE id = ?", id)
	return err
}

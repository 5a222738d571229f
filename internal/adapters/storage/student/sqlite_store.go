package student

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	domain "github.com/geraldho81/classroom-manager/internal/domain/student"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new Student store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanStudent(row interface{ Scan(...any) error }) (domain.Student, error) {
	var entity domain.Student
	var excluded int
	var createdAt string
	if err := row.Scan(&entity.ID, &entity.ClassID, &entity.Name, &excluded, &createdAt); err != nil {
		return domain.Student{}, err
	}
	entity.Excluded = excluded != 0
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, class_id, name, excluded, created_at FROM student WHERE id = ?", id)
	entity, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// ListByClass retrieves all students in a class in creation order (ascending),
// matching the append-only roster ordering.
// PRE: classID is non-empty
// POST: Returns students ordered by creation time ascending
func (s *SQLiteStore) ListByClass(ctx context.Context, classID string) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, class_id, name, excluded, created_at FROM student WHERE class_id = ? ORDER BY created_at ASC", classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		entity, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	query := `INSERT INTO student (id, class_id, name, excluded, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, excluded=excluded.excluded`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.ClassID,
		entity.Name,
		boolToInt(entity.Excluded),
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// SaveMany inserts a batch of students in one transaction.
// PRE: all entities have been validated
// POST: Either all entities are persisted or none are
func (s *SQLiteStore) SaveMany(ctx context.Context, values []domain.Student) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := "INSERT INTO student (id, class_id, name, excluded, created_at) VALUES (?, ?, ?, ?, ?)"
	for _, entity := range values {
		if _, err := tx.ExecContext(ctx, query,
			entity.ID,
			entity.ClassID,
			entity.Name,
			boolToInt(entity.Excluded),
			entity.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a Student from the database. Attendance rows cascade.
// PRE: id is non-empty
// POST: Entity with given id and its attendance rows are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM student WHERE id = ?", id)
	return err
}

// DeleteByClass removes every student in a class. Attendance rows cascade.
// PRE: classID is non-empty
// POST: No student rows remain for the class
func (s *SQLiteStore) DeleteByClass(ctx context.Context, classID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM student WHERE class_id = ?", classID)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	domain "github.com/geraldho81/classroom-manager/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const upsertQuery = `INSERT INTO attendance (id, student_id, date, status) VALUES (?, ?, ?, ?)
	ON CONFLICT(student_id, date) DO UPDATE SET status=excluded.status`

// GetPair retrieves the record for one (student, date) pair.
// PRE: studentID and date are non-empty
// POST: Returns the entity or an error if the pair is unmarked
func (s *SQLiteStore) GetPair(ctx context.Context, studentID, date string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, student_id, date, status FROM attendance WHERE student_id = ? AND date = ?",
		studentID, date)

	var entity domain.Record
	err := row.Scan(&entity.ID, &entity.StudentID, &entity.Date, &entity.Status)
	if err == sql.ErrNoRows {
		return domain.Record{}, fmt.Errorf("attendance record not found: %w", err)
	}
	return entity, err
}

// ListByClassAndDate retrieves the single day's records for students in the
// given class. Cross-table filtering happens here, not in the caller.
// PRE: classID and date are non-empty
// POST: Returns all records whose student belongs to the class on that date
func (s *SQLiteStore) ListByClassAndDate(ctx context.Context, classID, date string) ([]domain.Record, error) {
	query := `SELECT a.id, a.student_id, a.date, a.status
		FROM attendance a
		JOIN student s ON s.id = a.student_id
		WHERE s.class_id = ? AND a.date = ?`
	rows, err := s.db.QueryContext(ctx, query, classID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		var entity domain.Record
		if err := rows.Scan(&entity.ID, &entity.StudentID, &entity.Date, &entity.Status); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save upserts a Record keyed on (student_id, date).
// PRE: entity has been validated
// POST: Exactly one row exists for the pair, holding entity.Status
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Record) error {
	_, err := s.db.ExecContext(ctx, upsertQuery,
		entity.ID,
		entity.StudentID,
		entity.Date,
		entity.Status,
	)
	return err
}

// SaveMany upserts a batch of records in one transaction.
// PRE: all entities have been validated
// POST: Either all upserts apply or none do
func (s *SQLiteStore) SaveMany(ctx context.Context, values []domain.Record) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, entity := range values {
		if _, err := tx.ExecContext(ctx, upsertQuery,
			entity.ID,
			entity.StudentID,
			entity.Date,
			entity.Status,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeletePair removes the record for one (student, date) pair, returning the
// pair to the unmarked state. Deleting an unmarked pair is a no-op.
// PRE: studentID and date are non-empty
// POST: No row exists for the pair
func (s *SQLiteStore) DeletePair(ctx context.Context, studentID, date string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM attendance WHERE student_id = ? AND date = ?", studentID, date)
	return err
}

// DeleteByClassAndDate removes every record for the class's students on the
// given date. Records for other dates are untouched.
// PRE: classID and date are non-empty
// POST: No rows remain for (class roster x date)
func (s *SQLiteStore) DeleteByClassAndDate(ctx context.Context, classID, date string) error {
	query := `DELETE FROM attendance WHERE date = ?
		AND student_id IN (SELECT id FROM student WHERE class_id = ?)`
	_, err := s.db.ExecContext(ctx, query, date, classID)
	return err
}

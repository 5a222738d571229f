package attendance

import (
	"context"

	domain "github.com/geraldho81/classroom-manager/internal/domain/attendance"
)

// Store persists attendance Records. The (student_id, date) pair is unique;
// Save and SaveMany upsert on that key so marking an already-marked student
// replaces the prior status instead of adding a second row.
type Store interface {
	GetPair(ctx context.Context, studentID, date string) (domain.Record, error)
	ListByClassAndDate(ctx context.Context, classID, date string) ([]domain.Record, error)
	Save(ctx context.Context, value domain.Record) error
	SaveMany(ctx context.Context, values []domain.Record) error
	DeletePair(ctx context.Context, studentID, date string) error
	DeleteByClassAndDate(ctx context.Context, classID, date string) error
}

package student

import (
	"context"

	domain "github.com/geraldho81/classroom-manager/internal/domain/student"
)

// Store persists Student state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	ListByClass(ctx context.Context, classID string) ([]domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	SaveMany(ctx context.Context, values []domain.Student) error
	Delete(ctx context.Context, id string) error
	DeleteByClass(ctx context.Context, classID string) error
}

package note

import (
	"context"

	domain "github.com/geraldho81/classroom-manager/internal/domain/note"
)

// Store persists Note state.
type Store interface {
	ListByClass(ctx context.Context, classID string) ([]domain.Note, error)
	Save(ctx context.Context, value domain.Note) error
	Delete(ctx context.Context, id string) error
	DeleteByClass(ctx context.Context, classID string) error
}

package classroom

import (
	"context"

	domain "github.com/geraldho81/classroom-manager/internal/domain/classroom"
)

// Store persists ClassRoom state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.ClassRoom, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ClassRoom, error)
	Save(ctx context.Context, value domain.ClassRoom) error
	Delete(ctx context.Context, id string) error
}

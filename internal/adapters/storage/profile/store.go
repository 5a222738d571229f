package profile

import (
	"context"

	domain "github.com/geraldho81/classroom-manager/internal/domain/profile"
)

// Store persists Profile state. A profile shares its ID with the owning
// account.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
}

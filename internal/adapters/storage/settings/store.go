package settings

import (
	"context"

	domain "github.com/geraldho81/classroom-manager/internal/domain/settings"
)

// Store persists the per-user Settings document. The document is saved
// whole; there are no partial-field updates.
type Store interface {
	GetByUser(ctx context.Context, userID string) (domain.Settings, error)
	Save(ctx context.Context, value domain.Settings) error
}

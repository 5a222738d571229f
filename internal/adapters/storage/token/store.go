package token

import (
	"context"

	domain "github.com/geraldho81/classroom-manager/internal/domain/account"
)

// Store persists password reset tokens.
type Store interface {
	GetByToken(ctx context.Context, token string) (domain.ResetToken, error)
	Save(ctx context.Context, value domain.ResetToken) error
	MarkUsed(ctx context.Context, id string) error
}

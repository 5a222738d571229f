package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geraldho81/classroom-manager/internal/domain/account"
	"github.com/geraldho81/classroom-manager/internal/domain/profile"
	"github.com/geraldho81/classroom-manager/internal/domain/settings"
)

// RegisterInput carries input for the registration orchestrator.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegisterResult carries the new account's identity.
type RegisterResult struct {
	AccountID string
	Email     string
}

// AccountStoreForRegister defines the store interface needed by Register.
type AccountStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ProfileStoreForRegister defines the profile store interface needed by Register.
type ProfileStoreForRegister interface {
	Save(ctx context.Context, p profile.Profile) error
}

// SettingsStoreForRegister defines the settings store interface needed by Register.
type SettingsStoreForRegister interface {
	Save(ctx context.Context, s settings.Settings) error
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	AccountStore  AccountStoreForRegister
	ProfileStore  ProfileStoreForRegister
	SettingsStore SettingsStoreForRegister
}

var ErrEmailTaken = errors.New("an account with this email already exists")

// ExecuteRegister creates an account with its profile and default settings.
// PRE: Email is unused; password meets the minimum length
// POST: Account, profile, and settings rows exist for the new user
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (RegisterResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := deps.AccountStore.GetByEmail(ctx, email); err == nil {
		slog.Info("auth_event", "event", "register_blocked", "email", email, "reason", "email_taken")
		return RegisterResult{}, ErrEmailTaken
	}

	acct := account.Account{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return RegisterResult{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return RegisterResult{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return RegisterResult{}, err
	}

	p := profile.Profile{
		ID:        acct.ID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		CreatedAt: acct.CreatedAt,
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return RegisterResult{}, err
	}

	defaults := settings.Defaults(acct.ID)
	defaults.ID = uuid.NewString()
	if err := deps.SettingsStore.Save(ctx, defaults); err != nil {
		return RegisterResult{}, err
	}

	slog.Info("auth_event", "event", "registered", "account_id", acct.ID, "email", email)
	return RegisterResult{AccountID: acct.ID, Email: acct.Email}, nil
}

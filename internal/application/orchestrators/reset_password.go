package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/geraldho81/classroom-manager/internal/adapters/email"
	"github.com/geraldho81/classroom-manager/internal/domain/account"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = 1 * time.Hour

// RequestPasswordResetInput carries input for the reset-request orchestrator.
type RequestPasswordResetInput struct {
	Email   string
	BaseURL string // e.g. "https://classroommanager.app"
}

// AccountStoreForReset defines the account store interface for reset flows.
type AccountStoreForReset interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// TokenStoreForReset defines the token store interface for reset flows.
type TokenStoreForReset interface {
	GetByToken(ctx context.Context, token string) (account.ResetToken, error)
	Save(ctx context.Context, t account.ResetToken) error
	MarkUsed(ctx context.Context, id string) error
}

// RequestPasswordResetDeps holds dependencies for RequestPasswordReset.
type RequestPasswordResetDeps struct {
	AccountStore AccountStoreForReset
	TokenStore   TokenStoreForReset
	EmailSender  email.Sender
}

// ExecuteRequestPasswordReset issues a reset token and emails the link.
// An unknown email gets the same nil response as a known one so the
// endpoint cannot be used to probe which addresses have accounts.
// POST: A one-hour single-use token exists and the email is queued
func ExecuteRequestPasswordReset(ctx context.Context, input RequestPasswordResetInput, deps RequestPasswordResetDeps) error {
	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "reset_requested", "email", input.Email, "known", false)
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := account.ResetToken{
		ID:        uuid.NewString(),
		AccountID: acct.ID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(ResetTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := deps.TokenStore.Save(ctx, token); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", input.BaseURL, token.Token)
	_, err = deps.EmailSender.Send(ctx, email.SendRequest{
		To:      []string{acct.Email},
		Subject: "Reset your Classroom Manager password",
		HTML: fmt.Sprintf(
			"<p>Someone asked to reset the password for this account.</p>"+
				"<p><a href=%q>Choose a new password</a></p>"+
				"<p>The link expires in 1 hour. If this wasn't you, ignore this email.</p>", link),
	})
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "reset_requested", "account_id", acct.ID, "known", true)
	return nil
}

// ResetPasswordInput carries input for the reset-redemption orchestrator.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ResetPasswordResult identifies the account whose password was reset.
type ResetPasswordResult struct {
	AccountID string
}

// ResetPasswordDeps holds dependencies for ResetPassword.
type ResetPasswordDeps struct {
	AccountStore AccountStoreForReset
	TokenStore   TokenStoreForReset
}

// ExecuteResetPassword redeems a reset token and sets the new password.
// PRE: Token was issued by ExecuteRequestPasswordReset
// POST: Password is updated, token is spent, lockout is cleared
// INVARIANT: A token redeems at most once
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps ResetPasswordDeps) (ResetPasswordResult, error) {
	token, err := deps.TokenStore.GetByToken(ctx, input.Token)
	if err != nil {
		return ResetPasswordResult{}, account.ErrTokenInvalid
	}
	if token.Used {
		return ResetPasswordResult{}, account.ErrTokenInvalid
	}
	if token.IsExpired() {
		return ResetPasswordResult{}, account.ErrTokenExpired
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil {
		return ResetPasswordResult{}, account.ErrTokenInvalid
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return ResetPasswordResult{}, err
	}
	// A successful reset also unlocks the account
	acct.ResetFailedLogins()

	if err := deps.TokenStore.MarkUsed(ctx, token.ID); err != nil {
		return ResetPasswordResult{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return ResetPasswordResult{}, err
	}

	slog.Info("auth_event", "event", "password_reset", "account_id", acct.ID)
	return ResetPasswordResult{AccountID: acct.ID}, nil
}

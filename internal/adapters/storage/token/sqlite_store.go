package token

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/geraldho81/classroom-manager/internal/adapters/storage"
	domain "github.com/geraldho81/classroom-manager/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new reset token store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByToken retrieves a reset token by its opaque token value.
// PRE: token is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (domain.ResetToken, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_id, token, expires_at, used, created_at FROM reset_token WHERE token = ?", token)

	var entity domain.ResetToken
	var used int
	var expiresAt, createdAt string
	err := row.Scan(&entity.ID, &entity.AccountID, &entity.Token, &expiresAt, &used, &createdAt)
	if err == sql.ErrNoRows {
		return domain.ResetToken{}, fmt.Errorf("reset token not found: %w", err)
	}
	if err != nil {
		return domain.ResetToken{}, err
	}
	entity.Used = used != 0
	entity.ExpiresAt, _ = time.Parse(time.RFC3339Nano, expiresAt)
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}

// Save persists a reset token.
// PRE: entity fields are populated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.ResetToken) error {
	query := `INSERT INTO reset_token (id, account_id, token, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	used := 0
	if entity.Used {
		used = 1
	}
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.AccountID,
		entity.Token,
		entity.ExpiresAt.Format(time.RFC3339Nano),
		used,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// MarkUsed flags a token as redeemed so it cannot be reused.
// PRE: id is non-empty
// POST: Token row has used=1
func (s *SQLiteStore) MarkUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE reset_token SET used = 1 WHERE id = ?", id)
	return err
}

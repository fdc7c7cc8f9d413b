package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrRefreshInvalid is returned for refresh tokens that are unknown,
// expired or revoked, and for a rotation that lost a race with another one.
var ErrRefreshInvalid = errors.New("refresh token invalid")

// TokenRepo stores refresh tokens by SHA-256 hash; raw tokens never reach
// the database.
type TokenRepo struct {
	DB  *sql.DB
	now func() time.Time
}

func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	return storeRefresh(ctx, r.DB, userID, tokenHash, exp, r.now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func storeRefresh(ctx context.Context, db execer, userID, tokenHash string, exp, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		userID, tokenHash, exp.UTC(), now)
	return err
}

// ValidateRefresh returns the owner of a live token.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var (
		userID    string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`,
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrRefreshInvalid
	case err != nil:
		return "", err
	case revokedAt.Valid, !r.now().Before(expiresAt):
		return "", ErrRefreshInvalid
	}
	return userID, nil
}

// Rotate revokes oldHash and stores newHash for the same user in one
// transaction. When two requests rotate the same token only the first
// succeeds; the second gets ErrRefreshInvalid.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash, newHash string, exp time.Time) (string, error) {
	userID, err := r.ValidateRefresh(ctx, oldHash)
	if err != nil {
		return "", err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	now := r.now()
	res, err := tx.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`, now, oldHash)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrRefreshInvalid
	}
	if err := storeRefresh(ctx, tx, userID, newHash, exp, now); err != nil {
		return "", err
	}
	return userID, tx.Commit()
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`,
		r.now(), tokenHash)
	return err
}

// RevokeAllForUser revokes every live token of a user (sign out everywhere).
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		r.now(), userID)
	return err
}

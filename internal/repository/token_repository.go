package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fricsignage/signage-api/internal/model"
)

// TokenRepo persists staff refresh tokens.  Only the SHA-256 hash of a
// token ever reaches this table, so a leaked database dump cannot be used
// to mint new access tokens for the intake or review surfaces.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a freshly issued refresh token hash for an account.
// Rotation inserts the successor before the predecessor is revoked, so a
// user may briefly hold two live rows.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a presented token hash to its owning account.
// Revoked and expired tokens are reported as sql.ErrNoRows so callers treat
// them exactly like unknown ones and leak nothing about which it was.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		rt      model.RefreshToken
		revoked sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&rt.UserID, &rt.ExpiresAt, &revoked)
	if err != nil {
		return 0, err
	}
	if revoked.Valid {
		rt.RevokedAt = &revoked.Time
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(rt.ExpiresAt) {
		return 0, sql.ErrNoRows
	}
	return rt.UserID, nil
}

// RevokeByHash ends the single session behind one refresh token.  Already
// revoked rows keep their original revocation time.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser ends every live session of one account, used by the
// bearer-only logout mode to sign out across devices.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fricsignage/signage-api/internal/model"
)

// AdminRepo provides persistence for the admin_users registry.  This table
// is the single source of truth for administrator capability: review
// endpoints require a token whose subject exists here and is active.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByUsername fetches an admin by login name, matched case-insensitively.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	username = strings.TrimSpace(username)
	var a model.AdminUser
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, is_active, created_at
		 FROM admin_users WHERE LOWER(username) = LOWER(?) LIMIT 1`,
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.DisplayName, &a.IsActive, &a.CreatedAt)
	return a, err
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (model.AdminUser, error) {
	var a model.AdminUser
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, is_active, created_at
		 FROM admin_users WHERE id = ? LIMIT 1`,
		id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.DisplayName, &a.IsActive, &a.CreatedAt)
	return a, err
}

// UpdatePassword replaces the stored password hash.
func (r *AdminRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE admin_users SET password_hash = ? WHERE id = ?", hash, id)
	return err
}

// Rename changes the admin's login name.  A duplicate-key rejection is
// mapped to ErrUsernameExists.
func (r *AdminRepo) Rename(ctx context.Context, id uint64, username string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE admin_users SET username = ? WHERE id = ?", strings.TrimSpace(username), id)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrUsernameExists
	}
	return err
}

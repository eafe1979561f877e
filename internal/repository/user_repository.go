package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fricsignage/signage-api/internal/model"
	"github.com/fricsignage/signage-api/internal/utils"
)

// UserRepo provides persistence for ordinary applicant accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  Email is stored lower-cased so
// the unique index is effectively case-insensitive.  Duplicate-key errors
// are told apart by the index name MySQL reports.
func (r *UserRepo) Create(ctx context.Context, username, password, displayName, email string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, display_name, email) VALUES (?,?,?,?)",
		username, hash, strings.TrimSpace(displayName), email)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "uq_users_email") {
				return 0, ErrEmailExists
			}
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by login name, matched case-insensitively.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, email, role, is_active, created_at, updated_at
		 FROM users WHERE LOWER(username) = LOWER(?) LIMIT 1`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, email, role, is_active, created_at, updated_at
		 FROM users WHERE id = ? LIMIT 1`,
		id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

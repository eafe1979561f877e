package model

import "time"

// Roles carried in the JWT "role" claim.  Ordinary accounts are created with
// RoleStaff; RoleAdmin tokens are only issued by the admin login endpoint
// backed by the admin_users registry.
const (
    RoleStaff = "staff"
    RoleAdmin = "admin"
)

// User represents an ordinary applicant account in the `users` table.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name (matched case-insensitively).
//  PasswordHash – bcrypt hashed password.
//  DisplayName  – name shown in confirmation mail.
//  Email        – unique email address, stored lower-cased.
//  Role         – role claim issued at login (staff by default).
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    DisplayName  string    // users.display_name
    Email        string    // users.email
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// AdminUser is a row in the `admin_users` registry, the single source of
// truth for who may call the review endpoints.  Admin capability is decided
// here, not by a role column on ordinary users and not by any external
// allow-list file.
type AdminUser struct {
    ID           uint64    // admin_users.id
    Username     string    // admin_users.username
    PasswordHash string    // admin_users.password_hash
    DisplayName  string    // admin_users.display_name
    IsActive     bool      // admin_users.is_active
    CreatedAt    time.Time // admin_users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}

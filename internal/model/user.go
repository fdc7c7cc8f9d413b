package model

import "time"

// User is an authentication account as stored in the `users` table. The
// profile with the same id in profiles.user_id carries the public
// identity; this struct only holds what the auth service needs.
//
// Fields:
//  ID           – uuid primary key, shared with profiles.user_id.
//  Email        – unique, lower-cased address.
//  PasswordHash – bcrypt hash.
//  Role         – user_role value, copied into access tokens.
//  IsActive     – disabled accounts cannot sign in.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

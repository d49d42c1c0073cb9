// file: model/token.go

package model

import "time"

// RefreshToken holds a refresh token row. The ID is an opaque random string
// and doubles as the session identity.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResetToken holds a password-reset token row. Same shape as RefreshToken
// but kept in its own table and swept separately.
type ResetToken struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionRecord is the denormalized projection cached under a
// refreshToken:<id> key so authenticated requests avoid the user/role join.
// It must always be re-derivable from the refresh token row joined with the
// user and role tables.
type SessionRecord struct {
	UserID   int    `json:"user_id"`
	UserName string `json:"user_name"`
	UserRole string `json:"user_role"`
}

// SessionTokenRow is the resync job's read unit: a surviving refresh token
// joined with its owner and role in a single query.
type SessionTokenRow struct {
	TokenID   string
	ExpiresAt time.Time
	Session   SessionRecord
}

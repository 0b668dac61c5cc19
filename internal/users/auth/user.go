// Copyright (c) 2026 Mindfolio. All rights reserved.

/*
Package auth implements the user identity layer: registration, login,
and refresh-token session management.

Accounts live in Postgres; refresh sessions are volatile and live in
Redis under a TTL matching the token's lifetime, so expired sessions
vanish without a cleanup job.
*/
package auth

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is an active refresh-token session. Only the token's digest
// is stored; the plain token lives in the client's cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	TokenHash string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Field names for validation details and response payloads.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldLogin       = "login"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
)

// RefreshTokenLength is the byte length of the random refresh token.
const RefreshTokenLength = 32

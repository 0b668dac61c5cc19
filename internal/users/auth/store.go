// Copyright (c) 2026 Mindfolio. All rights reserved.

package auth

import "context"

// UserRepository defines the data access contract for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// SessionRepository defines the contract for refresh-token sessions.
// Implementations expire sessions on their own; FindByTokenHash on an
// expired or revoked session reports NOT_FOUND.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAll(ctx context.Context, userID string) error
}

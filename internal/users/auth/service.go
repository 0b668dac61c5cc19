// Copyright (c) 2026 Mindfolio. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/internal/platform/constants"
	"github.com/mindfolio/mindfolio-server/internal/platform/sec"
	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
	"github.com/mindfolio/mindfolio-server/pkg/uuidv7"
)

// TokenProvider defines the contract for signing access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error)
}

type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenProvider
	logger   *slog.Logger
}

func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Register validates, hashes, and persists a new account. The unique
// indexes on username and email are the real duplicate guard; the
// pre-checks just produce friendlier messages for the common case.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).MinLen(FieldUsername, input.Username, 3).MaxLen(FieldUsername, input.Username, 50)
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, 8)
	validator.MaxLen(FieldDisplayName, input.DisplayName, 100)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.users.FindByEmail(ctx, strings.ToLower(input.Email)); err == nil {
		return nil, apperr.Conflict("email is already registered")
	}
	if _, err := service.users.FindByUsername(ctx, strings.ToLower(input.Username)); err == nil {
		return nil, apperr.Conflict("username is already taken")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
	}
	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// LoginInput defines credentials for an authentication attempt. Login
// accepts either the username or the email address.
type LoginInput struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// LoginSession is a freshly established session ready for transport.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// Login verifies credentials and issues an access/refresh token pair.
// Failures stay deliberately vague to prevent account enumeration.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	login := strings.ToLower(strings.TrimSpace(input.Login))

	user, err := service.users.FindByEmail(ctx, login)
	if err != nil {
		user, err = service.users.FindByUsername(ctx, login)
	}
	if err != nil {
		return nil, apperr.Unauthorized("invalid login credentials")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("invalid login credentials")
	}

	session, err := service.issueSession(ctx, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

// issueSession mints the token pair and records the refresh session.
func (service *Service) issueSession(ctx context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(constants.RefreshTokenTTL)
	session := &Session{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		Username:  user.Username,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := service.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// RefreshSession rotates the refresh token: the presented token's
// session is revoked before a fresh pair is issued, so a replayed token
// dies on first reuse.
func (service *Service) RefreshSession(ctx context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessions.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}

	if err := service.sessions.Revoke(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}

	return service.issueSession(ctx, user, userAgent, ipAddress)
}

// Logout revokes the presented refresh session. An unknown token still
// succeeds; logout is idempotent.
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	return service.sessions.Revoke(ctx, sec.HashToken(refreshToken))
}

// LogoutAll revokes every session of the account behind the presented
// refresh token, signing the user out on all devices. Unlike Logout it
// demands a valid token, since it acts beyond the presented session.
func (service *Service) LogoutAll(ctx context.Context, refreshToken string) error {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return apperr.Unauthorized("invalid or expired refresh token")
	}

	if err := service.sessions.RevokeAll(ctx, session.UserID); err != nil {
		return fmt.Errorf("auth_service_revoke_all_failed: %w", err)
	}

	service.logger.Info("user_logged_out_everywhere", slog.String("user_id", session.UserID))
	return nil
}

// Copyright (c) 2026 Mindfolio. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/internal/platform/sec"
	"github.com/mindfolio/mindfolio-server/internal/users/auth"
)

type fakeUserRepository struct {
	users []*auth.User
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUserRepository) Create(ctx context.Context, user *auth.User) error {
	f.users = append(f.users, user)
	return nil
}

type fakeSessionRepository struct {
	sessions  map[string]*auth.Session
	revokeErr error
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (f *fakeSessionRepository) Create(ctx context.Context, session *auth.Session) error {
	f.sessions[session.TokenHash] = session
	return nil
}

func (f *fakeSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, error) {
	session, ok := f.sessions[tokenHash]
	if !ok {
		return nil, apperr.NotFound("session")
	}
	return session, nil
}

func (f *fakeSessionRepository) Revoke(ctx context.Context, tokenHash string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeSessionRepository) RevokeAll(ctx context.Context, userID string) error {
	for hash, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, hash)
		}
	}
	return nil
}

type staticTokenProvider struct{}

func (staticTokenProvider) GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error) {
	return "access-token-" + userID, nil
}

func newTestService(users *fakeUserRepository, sessions *fakeSessionRepository) *auth.Service {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return auth.NewService(users, sessions, staticTokenProvider{}, logger)
}

func registerUser(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

/*
TestService_Login verifies that either the username or the email works
as the login, case-insensitively, and that a wrong password reads the
same as an unknown account.
*/
func TestService_Login(t *testing.T) {
	users := &fakeUserRepository{}
	sessions := newFakeSessionRepository()
	service := newTestService(users, sessions)
	registerUser(t, service)
	ctx := context.Background()

	// 1. Login by email.
	byEmail, err := service.Login(ctx, auth.LoginInput{Login: "Reader@Example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, byEmail.AccessToken)
	assert.NotEmpty(t, byEmail.RefreshToken)

	// 2. Login by username.
	byUsername, err := service.Login(ctx, auth.LoginInput{Login: " READER ", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.NotEqual(t, byEmail.RefreshToken, byUsername.RefreshToken)

	// 3. Wrong password and unknown account fail with the same message.
	_, wrongPassword := service.Login(ctx, auth.LoginInput{Login: "reader", Password: "nope"})
	_, unknownAccount := service.Login(ctx, auth.LoginInput{Login: "stranger", Password: "nope"})
	for _, err := range []error{wrongPassword, unknownAccount} {
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		assert.Equal(t, "invalid login credentials", appErr.Message)
	}
}

/*
TestService_RefreshSession_Rotation verifies that a refresh token is
single-use: refreshing issues a new pair and kills the presented token,
so replaying it fails.
*/
func TestService_RefreshSession_Rotation(t *testing.T) {
	users := &fakeUserRepository{}
	sessions := newFakeSessionRepository()
	service := newTestService(users, sessions)
	registerUser(t, service)
	ctx := context.Background()

	login, err := service.Login(ctx, auth.LoginInput{Login: "reader", Password: "correct horse battery"})
	require.NoError(t, err)

	// 1. First refresh succeeds and returns a different token.
	refreshed, err := service.RefreshSession(ctx, login.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// 2. Replaying the original token is rejected.
	_, err = service.RefreshSession(ctx, login.RefreshToken, "", "")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)

	// 3. The rotated token still works.
	_, err = service.RefreshSession(ctx, refreshed.RefreshToken, "", "")
	require.NoError(t, err)
}

/*
TestService_RefreshSession_RevokeFailureAborts verifies that a backend
failure during revocation stops the refresh cold. Minting a new session
while the presented token's session survives would hand out two live
refresh tokens and defeat rotation.
*/
func TestService_RefreshSession_RevokeFailureAborts(t *testing.T) {
	users := &fakeUserRepository{}
	sessions := newFakeSessionRepository()
	service := newTestService(users, sessions)
	registerUser(t, service)
	ctx := context.Background()

	login, err := service.Login(ctx, auth.LoginInput{Login: "reader", Password: "correct horse battery"})
	require.NoError(t, err)

	sessions.revokeErr = errors.New("connection refused")
	_, err = service.RefreshSession(ctx, login.RefreshToken, "", "")
	require.Error(t, err)

	// No second session was minted; the original is the only one left.
	require.Len(t, sessions.sessions, 1)
	_, ok := sessions.sessions[sec.HashToken(login.RefreshToken)]
	assert.True(t, ok)
}

/*
TestService_LogoutAll verifies the sign-out-everywhere path: presenting
one valid refresh token kills every session of that account, and an
unknown token is rejected rather than silently accepted.
*/
func TestService_LogoutAll(t *testing.T) {
	users := &fakeUserRepository{}
	sessions := newFakeSessionRepository()
	service := newTestService(users, sessions)
	registerUser(t, service)
	ctx := context.Background()

	// 1. Two logins, as from two devices.
	first, err := service.Login(ctx, auth.LoginInput{Login: "reader", Password: "correct horse battery"})
	require.NoError(t, err)
	second, err := service.Login(ctx, auth.LoginInput{Login: "reader", Password: "correct horse battery"})
	require.NoError(t, err)
	require.Len(t, sessions.sessions, 2)

	// 2. An unknown token cannot revoke anything.
	appErr := apperr.As(service.LogoutAll(ctx, "not-a-token"))
	require.NotNil(t, appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	assert.Len(t, sessions.sessions, 2)

	// 3. Logout-all from the first device kills both sessions.
	require.NoError(t, service.LogoutAll(ctx, first.RefreshToken))
	assert.Empty(t, sessions.sessions)

	_, err = service.RefreshSession(ctx, second.RefreshToken, "", "")
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestService_Register_RejectsDuplicates(t *testing.T) {
	users := &fakeUserRepository{}
	service := newTestService(users, newFakeSessionRepository())
	registerUser(t, service)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "reader2",
		Email:    "READER@example.com",
		Password: "another password",
	})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	_, err = service.Register(context.Background(), auth.RegisterInput{
		Username: "Reader",
		Email:    "other@example.com",
		Password: "another password",
	})
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestService_Logout_Idempotent(t *testing.T) {
	users := &fakeUserRepository{}
	sessions := newFakeSessionRepository()
	service := newTestService(users, sessions)
	registerUser(t, service)

	login, err := service.Login(context.Background(), auth.LoginInput{Login: "reader", Password: "correct horse battery"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), login.RefreshToken))
	assert.Empty(t, sessions.sessions[sec.HashToken(login.RefreshToken)])
}

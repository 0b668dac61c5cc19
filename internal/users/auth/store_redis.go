// Copyright (c) 2026 Mindfolio. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/internal/platform/constants"
)

// RedisSessionRepository implements [SessionRepository] on Redis.
//
// Sessions are keyed by token digest with a TTL equal to the refresh
// token's remaining lifetime; expiry IS revocation, no sweeper needed.
// A per-user set of digests supports revoking everything at once.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixSession + "user:" + userID
}

func (repository *RedisSessionRepository) Create(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_already_expired")
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Set(ctx, sessionKey(session.TokenHash), payload, ttl)
	pipeline.SAdd(ctx, userSessionsKey(session.UserID), session.TokenHash)
	pipeline.Expire(ctx, userSessionsKey(session.UserID), ttl)
	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

func (repository *RedisSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.Get(ctx, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}
	return session, nil
}

func (repository *RedisSessionRepository) Revoke(ctx context.Context, tokenHash string) error {
	session, err := repository.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		// Already expired or gone; revocation is idempotent. Anything
		// else is a real backend failure and must surface, or a refresh
		// could mint a new session while the old one survives.
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusNotFound {
			return nil
		}
		return err
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Del(ctx, sessionKey(tokenHash))
	pipeline.SRem(ctx, userSessionsKey(session.UserID), tokenHash)
	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}

func (repository *RedisSessionRepository) RevokeAll(ctx context.Context, userID string) error {
	hashes, err := repository.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	for _, tokenHash := range hashes {
		pipeline.Del(ctx, sessionKey(tokenHash))
	}
	pipeline.Del(ctx, userSessionsKey(userID))
	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}
	return nil
}

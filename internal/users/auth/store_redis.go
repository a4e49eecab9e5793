// Copyright (c) 2026 Mogger. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amandag/mogger/internal/platform/dberr"
)

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// # Layout
//
// Each session token maps to its user under "auth:session:<token>" with a
// TTL, so expiry needs no cleanup pass. A per-user set under
// "auth:user_sessions:<user>" tracks the tokens for bulk revocation.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository constructs a Redis backed session store.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(token string) string {
	return fmt.Sprintf("auth:session:%s", token)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("auth:user_sessions:%s", userID)
}

/*
Create stores the session token with a TTL derived from its expiry and
registers it in the owner's session set.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	ttl := time.Until(session.Expires)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_create_failed: session already expired")
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Set(context, sessionKey(session.ID), session.User, ttl)
	pipeline.SAdd(context, userSessionsKey(session.User), session.ID)
	// Keep the tracking set alive at least as long as its newest session.
	pipeline.Expire(context, userSessionsKey(session.User), ttl)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}

	return nil
}

/*
Find resolves a session token to its owning user.

Description: Returns dberr.ErrNotFound when the token is absent or has
expired. The Expires field is reconstructed from the key's remaining TTL.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *Session: Hydrated entity
  - error: dberr.ErrNotFound or connectivity errors
*/
func (repository *RedisSessionRepository) Find(context context.Context, token string) (*Session, error) {
	userID, err := repository.client.Get(context, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_find_failed: %w", err)
	}

	ttl, err := repository.client.TTL(context, sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_session_ttl_failed: %w", err)
	}

	return &Session{
		ID:      token,
		User:    userID,
		Expires: time.Now().Add(ttl),
	}, nil
}

/*
Delete removes a single session token.

Description: Idempotent, deleting an absent token is not an error.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) Delete(context context.Context, token string) error {
	userID, err := repository.client.Get(context, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Del(context, sessionKey(token))
	pipeline.SRem(context, userSessionsKey(userID), token)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAll revokes every session belonging to the user.

Description: Walks the per-user tracking set and deletes each token key
along with the set itself. Tokens that already expired are no-ops.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) DeleteAll(context context.Context, userID string) error {
	tokens, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_delete_all_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	for _, token := range tokens {
		pipeline.Del(context, sessionKey(token))
	}
	pipeline.Del(context, userSessionsKey(userID))

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_delete_all_failed: %w", err)
	}

	return nil
}

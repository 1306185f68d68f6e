package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/opsdeck/admin-console/internal/core/domain"
)

// Persisted state layout: key "token" holds the opaque bearer credential,
// key "user" the serialized user. Both present or both absent under normal
// operation; entries live until explicitly cleared (no TTL).
const (
	tokenKey = "token"
	userKey  = "user"
)

// SessionStore is the Redis-backed durable mirror of the console session.
// An unreachable Redis degrades to "no persisted session": reads report
// absent and writes are best-effort, so storage is never a hard dependency.
type SessionStore struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewSessionStore wraps an established Redis client.
func NewSessionStore(client *redis.Client, log zerolog.Logger) *SessionStore {
	return &SessionStore{client: client, log: log}
}

// Save writes token and user in one transactional pipeline, so a reader never
// observes only one of the two after a successful save.
func (s *SessionStore) Save(ctx context.Context, token string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey, token, 0)
	pipe.Set(ctx, userKey, raw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear removes both entries. Idempotent.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, tokenKey, userKey).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ReadToken returns the persisted token, or "" when absent or when the store
// is unreachable.
func (s *SessionStore) ReadToken(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, tokenKey).Result()
	switch {
	case err == redis.Nil:
		return "", nil
	case err != nil:
		s.log.Debug().Err(err).Msg("store: token read failed, treating as absent")
		return "", nil
	}
	return val, nil
}

// ReadUser returns the persisted user, or nil when absent or when the store
// is unreachable. A present but undecodable entry is the one hard failure:
// it surfaces as domain.ErrCorruptSession.
func (s *SessionStore) ReadUser(ctx context.Context) (*domain.User, error) {
	raw, err := s.client.Get(ctx, userKey).Bytes()
	switch {
	case err == redis.Nil:
		return nil, nil
	case err != nil:
		s.log.Debug().Err(err).Msg("store: user read failed, treating as absent")
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return &user, nil
}

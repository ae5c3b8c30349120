// Package session implements the server-side session store: a redis hash per
// session keyed by an opaque token, with TTL-based expiry. Flash messages live
// under the same token and are consumed on read.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("session not found")

const (
	keyPrefix   = "session:"
	flashSuffix = ":flash:"

	FlashSuccess = "success"
	FlashError   = "error"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL reports the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create opens a new session bound to userID and returns its opaque token.
// An empty userID creates an anonymous session, used to carry flashes for
// visitors who are not logged in.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	key := keyPrefix + token

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "user_id", userID)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return token, nil
}

// UserID resolves a token to its bound user, refreshing the TTL on every hit
// so active sessions roll forward. Anonymous sessions yield an empty userID.
func (s *Store) UserID(ctx context.Context, token string) (string, error) {
	key := keyPrefix + token

	userID, err := s.rdb.HGet(ctx, key, "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}

	s.rdb.Expire(ctx, key, s.ttl)
	return userID, nil
}

// Destroy invalidates the session synchronously; a subsequent UserID on the
// same token reports ErrNoSession.
func (s *Store) Destroy(ctx context.Context, token string) error {
	keys := []string{
		keyPrefix + token,
		keyPrefix + token + flashSuffix + FlashSuccess,
		keyPrefix + token + flashSuffix + FlashError,
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// AddFlash queues a one-shot message of the given kind on the session.
func (s *Store) AddFlash(ctx context.Context, token, kind, message string) error {
	key := keyPrefix + token + flashSuffix + kind

	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, message)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// PopFlashes returns all queued flashes by kind and clears them.
func (s *Store) PopFlashes(ctx context.Context, token string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, kind := range []string{FlashSuccess, FlashError} {
		key := keyPrefix + token + flashSuffix + kind

		msgs, err := s.rdb.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			continue
		}
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return nil, err
		}
		out[kind] = msgs
	}
	return out, nil
}

// Package session maps opaque authentication tokens to user ids in a
// TTL key-value store. Expiry is delegated entirely to the store, so
// tokens self-clean and no application-side sweep exists.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth_"

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Issue generates a random token and binds it to userID for ttl.
func (s *Store) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, keyPrefix+token, userID, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id bound to token, or "" when the token was never
// issued, has expired, or was revoked. Those three cases are deliberately
// indistinguishable.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Revoke deletes the token binding. Revoking an unknown token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}

// IsAvailable is a liveness probe for the backing store, used by the status
// endpoint rather than by business logic.
func (s *Store) IsAvailable(ctx context.Context) bool {
	return s.rdb.Ping(ctx).Err() == nil
}

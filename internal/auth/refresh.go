package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Refresh tokens live in redis under an opaque uuid key with a TTL, so
// revocation and expiry need no cleanup job.

const refreshKeyPrefix = "auth:refresh:"

var ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")

type RefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshStore(rdb *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{rdb: rdb, ttl: ttl}
}

// Issue mints a refresh token for the user and stores it with the configured
// TTL.
func (s *RefreshStore) Issue(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	err := s.rdb.Set(ctx, refreshKeyPrefix+token, strconv.Itoa(userID), s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return token, nil
}

// Redeem consumes a refresh token and returns the user it was issued to.
// Single use: the token is deleted on redemption.
func (s *RefreshStore) Redeem(ctx context.Context, token string) (int, error) {
	val, err := s.rdb.GetDel(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrRefreshTokenInvalid
	}
	if err != nil {
		return 0, err
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, ErrRefreshTokenInvalid
	}
	return userID, nil
}

// Revoke deletes a refresh token, e.g. on logout. Revoking an unknown token
// is not an error.
func (s *RefreshStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, refreshKeyPrefix+token).Err()
}

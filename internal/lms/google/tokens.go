package google

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Google Classroom calls run with a short-lived OAuth access token the
// frontend obtains and posts to us. Tokens live in redis keyed by user
// so every copy/list call picks up the latest one.

const tokenTTL = 50 * time.Minute

type TokenStore interface {
	Save(ctx context.Context, userID int, accessToken string) error
	Get(ctx context.Context, userID int) (string, error)
}

type redisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) TokenStore {
	return &redisTokenStore{rdb: rdb}
}

func tokenKey(userID int) string {
	return fmt.Sprintf("google:access_token:%d", userID)
}

func (s *redisTokenStore) Save(ctx context.Context, userID int, accessToken string) error {
	return s.rdb.Set(ctx, tokenKey(userID), accessToken, tokenTTL).Err()
}

func (s *redisTokenStore) Get(ctx context.Context, userID int) (string, error) {
	tok, err := s.rdb.Get(ctx, tokenKey(userID)).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("no google access token stored for user %d", userID)
	}
	return tok, err
}

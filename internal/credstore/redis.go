package credstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/uecsr/portal/internal/models"
)

// RedisStore keeps credentials under <prefix>:auth_token and
// <prefix>:auth_user.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore returns a RedisStore using prefix as the key namespace.
func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

// Load reads both keys in one round trip. Missing keys and connection
// errors read as empty.
func (s *RedisStore) Load(ctx context.Context) Credentials {
	vals, err := s.rdb.MGet(ctx, s.key(TokenKey), s.key(UserKey)).Result()
	if err != nil || len(vals) != 2 {
		return Credentials{}
	}
	token, _ := vals[0].(string)
	rawUser, _ := vals[1].(string)
	return Credentials{Token: token, User: decodeUser(rawUser)}
}

func (s *RedisStore) SaveToken(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key(TokenKey), token, 0).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveUser(ctx context.Context, user *models.Usuario) error {
	raw, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(UserKey), raw, 0).Err(); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear deletes both keys atomically.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key(TokenKey), s.key(UserKey)).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

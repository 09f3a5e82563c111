package repository

import (
	"context"
	"encoding/json"
	"exam_platform_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore 身份适配器持有的会话缓存。带 TTL，可注入替换，
// 核心代码不直接触碰底层存储。
type SessionStore interface {
	Put(ctx context.Context, sessionID string, claims *util.Claims, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*util.Claims, error)
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:"

type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: rdb}
}

func (s *RedisSessionStore) Put(ctx context.Context, sessionID string, claims *util.Claims, ttl time.Duration) error {
	data, err := json.Marshal(claims)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKeyPrefix+sessionID, data, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*util.Claims, error) {
	data, err := s.Client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var claims util.Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	UserTokenPrefix   = "login:user:token"
	UserRefreshPrefix = "login:user:refresh"
)

// SessionRepository 每个用户只保留最近一次签发的 access/refresh token
type SessionRepository struct {
	RDB        *redis.Client
	TTL        time.Duration
	RefreshTTL time.Duration
}

func (r *SessionRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

func (r *SessionRepository) refreshKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserRefreshPrefix, userID)
}

func (r *SessionRepository) Save(ctx context.Context, userID uint64, token string) error {
	if err := r.RDB.Set(ctx, r.key(userID), token, r.TTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := r.RDB.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend 滑动续期
func (r *SessionRepository) Extend(ctx context.Context, userID uint64) error {
	if err := r.RDB.Expire(ctx, r.key(userID), r.TTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

// SaveRefresh 未设置 RefreshTTL 时沿用 TTL
func (r *SessionRepository) SaveRefresh(ctx context.Context, userID uint64, token string) error {
	ttl := r.RefreshTTL
	if ttl <= 0 {
		ttl = r.TTL
	}
	if err := r.RDB.Set(ctx, r.refreshKey(userID), token, ttl).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) GetRefresh(ctx context.Context, userID uint64) (string, error) {
	token, err := r.RDB.Get(ctx, r.refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Delete 同时删除 access 和 refresh，幂等
func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.RDB.Del(ctx, r.key(userID), r.refreshKey(userID)).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

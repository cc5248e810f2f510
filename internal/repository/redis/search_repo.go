package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const SearchKeyPrefix = "search:buzz:"

// SearchCacheRepository 缓存搜索结果的 JSON，miss 时 ok=false
type SearchCacheRepository struct {
	RDB *redis.Client
	TTL time.Duration
}

func (r *SearchCacheRepository) Get(ctx context.Context, query string, dst any) (bool, error) {
	raw, err := r.RDB.Get(ctx, SearchKeyPrefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *SearchCacheRepository) Set(ctx context.Context, query string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, SearchKeyPrefix+query, raw, r.TTL).Err()
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimiterRepository 固定窗口计数
type LimiterRepository struct {
	RDB *redis.Client
}

// Allow INCR 与 EXPIRE NX 在同一事务里执行，窗口只在 key 没有过期时间时设置
func (r *LimiterRepository) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", resource, id)
	var incr *redis.IntCmd
	_, err := r.RDB.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

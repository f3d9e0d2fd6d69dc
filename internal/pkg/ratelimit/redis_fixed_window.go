package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 多實例共用計數, 窗口從該 key 第一次請求開始計算
type RedisFixedWindow struct {
	config LimiterConfig
	client *redis.Client
}

func NewRedisFixedWindow(client *redis.Client, config LimiterConfig) *RedisFixedWindow {
	if client == nil {
		panic("NewRedisFixedWindow: redis client cannot be nil")
	}
	return &RedisFixedWindow{config: config.normalize(), client: client}
}

func (r *RedisFixedWindow) key(key string) string {
	return fmt.Sprintf("%s:%s", r.config.Prefix, key)
}

func (r *RedisFixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	k := r.key(key)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(r.config.Capacity), nil
}

// Reset 清掉某個 key 的計數
func (r *RedisFixedWindow) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// TTL 距離窗口重置的時間
func (r *RedisFixedWindow) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.client.TTL(ctx, r.key(key)).Result()
}

var _ ILimiter = (*RedisFixedWindow)(nil)

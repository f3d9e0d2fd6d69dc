package ratelimit

import (
	"context"
	"time"
)

// ILimiter 以 key 區分的限流器, key 通常是來源 IP
type ILimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type LimiterConfig struct {
	Prefix   string
	Capacity int           // 每個窗口可通過的次數
	Window   time.Duration // 窗口長度
}

func GetDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Prefix:   "ratelimit",
		Capacity: 10,
		Window:   time.Minute,
	}
}

func (c LimiterConfig) normalize() LimiterConfig {
	def := GetDefaultLimiterConfig()
	if c.Prefix == "" {
		c.Prefix = def.Prefix
	}
	if c.Capacity <= 0 {
		c.Capacity = def.Capacity
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	return c
}

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/ZamoritaCR/neurostream/internal/config"
)

const keyTrackUser = "track:user:%d"

// TrackLimiter bounds per-user event-tracking writes. When disabled it
// is nil and callers skip the check.
type TrackLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewTrackLimiter(cfg config.Config) (*TrackLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.TrackRate <= 0 || limitCfg.TrackBurst <= 0 {
		return nil, errors.New("track rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &TrackLimiter{
		bucket: NewTokenBucket(client),
		rate:   limitCfg.TrackRate,
		burst:  limitCfg.TrackBurst,
	}, nil
}

// Allow reports whether the user may record another event right now.
// Limiter failures fail open so tracking is never blocked by Redis.
func (l *TrackLimiter) Allow(ctx context.Context, userID int64) *RateLimitResult {
	if l == nil || l.bucket == nil {
		return &RateLimitResult{Allowed: true}
	}
	result, err := l.bucket.Allow(ctx, fmt.Sprintf(keyTrackUser, userID), l.rate, l.burst)
	if err != nil {
		return &RateLimitResult{Allowed: true}
	}
	return result
}

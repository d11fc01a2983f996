package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/gestionale/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keyConfirm     = "gestionale:ratelimit:confirm:%s"
	keySnapshot    = "gestionale:ratelimit:snapshot:%s"
	keyConfirmLock = "gestionale:lock:invoice-import:confirm"
)

// Limiter throttles the expensive CRM endpoints and serializes invoice
// import confirmations. A nil *Limiter allows everything.
type Limiter struct {
	bucket *TokenBucket
	locker *Locker

	confirmRate   float64
	confirmBurst  int
	snapshotRate  float64
	snapshotBurst int
	lockTTL       time.Duration
}

func NewLimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*Limiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ConfirmRate <= 0 || limitCfg.ConfirmBurst <= 0 {
		return nil, errors.New("confirm rate limit must be positive")
	}
	if limitCfg.SnapshotRate <= 0 || limitCfg.SnapshotBurst <= 0 {
		return nil, errors.New("snapshot rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					log.Warn("redis unreachable, rate limiting will fail open", zap.Error(err))
				}
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
	}

	ttl := time.Duration(limitCfg.LockTTLSecond) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return newLimiter(client, limitCfg, ttl), nil
}

func newLimiter(client redis.UniversalClient, cfg config.RateLimitConfig, ttl time.Duration) *Limiter {
	return &Limiter{
		bucket:        NewTokenBucket(client),
		locker:        NewLocker(client),
		confirmRate:   cfg.ConfirmRate,
		confirmBurst:  cfg.ConfirmBurst,
		snapshotRate:  cfg.SnapshotRate,
		snapshotBurst: cfg.SnapshotBurst,
		lockTTL:       ttl,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil
}

// AllowConfirm throttles confirm calls per caller key.
func (l *Limiter) AllowConfirm(ctx context.Context, caller string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyConfirm, strings.TrimSpace(caller)), l.confirmRate, l.confirmBurst)
}

// AllowSnapshot throttles snapshot builds per caller key.
func (l *Limiter) AllowSnapshot(ctx context.Context, caller string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySnapshot, strings.TrimSpace(caller)), l.snapshotRate, l.snapshotBurst)
}

// AcquireConfirm takes the global confirm lock. Without a limiter no lease
// is taken and the database transaction is the only guard.
func (l *Limiter) AcquireConfirm(ctx context.Context) (*Lease, error) {
	if !l.Enabled() {
		return nil, nil
	}
	return l.locker.Acquire(ctx, keyConfirmLock, l.lockTTL)
}

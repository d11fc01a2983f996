package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/gestionale/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	l, err := NewLimiter(nil, config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, l)

	res, err := l.AllowConfirm(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	lease, err := l.AcquireConfirm(context.Background())
	require.NoError(t, err)
	assert.Nil(t, lease)
	assert.NoError(t, lease.Release(context.Background()))
}

func TestNewLimiterValidatesConfig(t *testing.T) {
	cfg := config.Config{RateLimit: config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379"}}
	_, err := NewLimiter(nil, cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 20*time.Second, bucketTTL(0.5, 5))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
	assert.Equal(t, time.Second, bucketTTL(0, 0))
}

func TestScriptValueConversion(t *testing.T) {
	assert.Equal(t, int64(1), toInt(int64(1)))
	assert.Equal(t, int64(0), toInt(nil))
	assert.Equal(t, 2.5, toFloat("2.5"))
	assert.Equal(t, 3.0, toFloat(int64(3)))
}

func TestNilLockerAndBucketReportErrors(t *testing.T) {
	var bucket *TokenBucket
	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)

	var locker *Locker
	_, err = locker.Acquire(context.Background(), "k", time.Second)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockHeld)

	var lease *Lease
	assert.NoError(t, lease.Release(context.Background()))
}

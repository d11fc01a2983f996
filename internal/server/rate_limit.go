package server

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gestionale/internal/observability/logger"
	"github.com/smallbiznis/gestionale/internal/ratelimit"
	"go.uber.org/zap"
)

type rateLimitScope string

const (
	rateLimitSnapshot rateLimitScope = "snapshot"
	rateLimitConfirm  rateLimitScope = "confirm"
)

// RateLimit throttles per client IP. Limiter failures let the request
// through.
func (s *Server) RateLimit(scope rateLimitScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := normalizeRateLimitEndpoint(c)

		res, err := s.allow(ctx, scope, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("rate limit check failed",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			logger.FromContext(ctx).Warn("rate limit exceeded", zap.String("endpoint", endpoint))
			s.obsMetrics.RecordRateLimitDenied(ctx, endpoint)

			retry := int(res.RetryAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func (s *Server) allow(ctx context.Context, scope rateLimitScope, caller string) (ratelimit.Result, error) {
	if scope == rateLimitConfirm {
		return s.limiter.AllowConfirm(ctx, caller)
	}
	return s.limiter.AllowSnapshot(ctx, caller)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}

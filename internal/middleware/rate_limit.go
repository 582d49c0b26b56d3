package middleware

import (
	"context"
	"net"
	"time"

	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/router"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/luckywalk/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
	"golang.org/x/time/rate"
)

// RateLimiter allows a fixed number of requests per window to every user, or
// to every client address when the request is not authenticated. Windows are
// counted in redis so all replicas share them. Without redis, each process
// keeps its own token buckets.
type RateLimiter struct {
	scope       string
	redisClient xredis.Client
	local       *xsync.MapOf[string, *rate.Limiter]
	now         func() time.Time
}

func NewRateLimiter(scope string, redisClient xredis.Client) *RateLimiter {
	return &RateLimiter{
		scope:       scope,
		redisClient: redisClient,
		local:       xsync.NewMapOf[*rate.Limiter](),
		now:         time.Now,
	}
}

func (l *RateLimiter) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		cfg := xcontext.Configs(ctx).RateLimit
		if !cfg.Enable || cfg.Limit <= 0 || cfg.Window <= 0 {
			return nil, nil
		}

		subject := rateLimitSubject(ctx)
		if subject == "" {
			return nil, nil
		}

		allowed, err := l.allow(ctx, subject, cfg.Limit, cfg.Window)
		if err != nil {
			// Fail open.
			xcontext.Logger(ctx).Warnf("Cannot check rate limit of %s: %v", subject, err)
			return nil, nil
		}

		if !allowed {
			return nil, errorx.New(errorx.TooManyRequests, "Too many requests, please try again later")
		}

		return nil, nil
	}
}

func (l *RateLimiter) allow(ctx context.Context, subject string, limit int, window time.Duration) (bool, error) {
	if l.redisClient == nil {
		return l.allowLocal(subject, limit, window), nil
	}

	slot := l.now().UnixNano() / int64(window)
	key := common.RedisKeyRateLimit(l.scope, subject, slot)
	n, err := l.redisClient.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, err
	}

	return n <= int64(limit), nil
}

func (l *RateLimiter) allowLocal(subject string, limit int, window time.Duration) bool {
	limiter, ok := l.local.Load(subject)
	if !ok {
		every := rate.Every(window / time.Duration(limit))
		limiter, _ = l.local.LoadOrStore(subject, rate.NewLimiter(every, limit))
	}

	return limiter.AllowN(l.now(), 1)
}

func rateLimitSubject(ctx context.Context) string {
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		return "user:" + userID
	}

	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if ip := common.ClientIP(req); ip != "" {
		return "ip:" + ip
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return "ip:" + req.RemoteAddr
	}

	return "ip:" + host
}

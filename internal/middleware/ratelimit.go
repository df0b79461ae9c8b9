package middleware

import (
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/util"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 按客户端IP限流，用于登录和注册这类匿名接口
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rps      rate.Limit
	burst    int
	ttl      time.Duration

	sweepEvery time.Duration
	lastSweep  time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,

		sweepEvery: time.Minute,
		lastSweep:  time.Now(),
	}
}

// Allow 是否允许 key 的这次请求
func (rl *RateLimiter) Allow(key string) bool {
	return rl.allowAt(key, time.Now())
}

func (rl *RateLimiter) allowAt(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now
	if now.Sub(rl.lastSweep) >= rl.sweepEvery {
		rl.cleanup(now)
	}
	return v.limiter.AllowN(now, 1)
}

// cleanup 清理长时间没有请求的IP，调用方持有锁
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.lastSweep = now
	for key, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.Allow(ip) {
			util.Logger.Warn("请求过于频繁", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrTooManyRequests, "Request was throttled."))
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/logger"
)

// creditScript spends ARGV[6] credits from the bucket at KEYS[1] after
// topping it up for the whole refill steps elapsed since the last top-up.
// It returns {allowed, credits left, wait in ms}.
var creditScript = redis.NewScript(`
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill = tonumber(ARGV[3])
	local step_ms = tonumber(ARGV[4])
	local ttl = tonumber(ARGV[5])
	local cost = tonumber(ARGV[6])

	local state = redis.call('HMGET', KEYS[1], 'credits', 'refilled_at')
	local credits = tonumber(state[1])
	local refilled_at = tonumber(state[2])
	if credits == nil or refilled_at == nil then
		credits = capacity
		refilled_at = now_ms
	end

	local steps = math.floor(math.max(0, now_ms - refilled_at) / step_ms)
	if steps > 0 then
		credits = math.min(capacity, credits + steps * refill)
		refilled_at = refilled_at + steps * step_ms
	end

	local allowed = 0
	local wait_ms = 0
	if credits >= cost then
		allowed = 1
		credits = credits - cost
	else
		local missing = math.ceil((cost - credits) / refill)
		wait_ms = math.max(0, missing * step_ms - (now_ms - refilled_at))
	end

	redis.call('HSET', KEYS[1], 'credits', credits, 'refilled_at', refilled_at)
	redis.call('EXPIRE', KEYS[1], ttl)
	return { allowed, credits, wait_ms }
`)

// Limiter meters advisor calls against a per-learner credit bucket in
// Redis. A nil Limiter, a disabled config or a nil client lets every
// request through, and Redis errors fail open.
type Limiter struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
	log *logger.Logger
	now func() time.Time
}

func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *logger.Logger) *Limiter {
	return &Limiter{cfg: cfg, rdb: rdb, log: log, now: time.Now}
}

// Costs returns the configured credit cost of each advisor call.
func (l *Limiter) Costs() config.AdvisorCosts {
	if l == nil {
		return config.AdvisorCosts{}
	}
	return l.cfg.Costs
}

// Charge returns middleware that spends cost credits per request and
// answers 429 with Retry-After once the bucket cannot cover it.
func (l *Limiter) Charge(cost int) echo.MiddlewareFunc {
	if l == nil || !l.cfg.Enabled || l.rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	cost = max(cost, 1)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(l.cfg, c)
			vals, err := creditScript.Run(c.Request().Context(), l.rdb, []string{key},
				l.now().UnixMilli(),
				l.cfg.Capacity,
				l.cfg.RefillTokens,
				l.cfg.RefillInterval.Milliseconds(),
				int64(l.cfg.TTL/time.Second),
				cost,
			).Result()
			if err != nil {
				l.log.Warn("ratelimit: redis error", "key", key, "error", err)
				return next(c)
			}
			allowed, remaining, waitMs, ok := parseBucketResult(vals)
			if !ok {
				l.log.Warn("ratelimit: unexpected script result", "key", key, "result", fmt.Sprintf("%#v", vals))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("X-RateLimit-Cost", strconv.Itoa(cost))
			if l.cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}

			if !allowed {
				secs := max(int(math.Ceil(float64(waitMs)/1000.0)), 0)
				h.Set("Retry-After", strconv.Itoa(secs))
				l.log.Info("ratelimit: out of credits", "key", key, "cost", cost, "wait_ms", waitMs)
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "you are sending requests too quickly, please wait a moment",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func parseBucketResult(vals interface{}) (allowed bool, remaining, waitMs int64, ok bool) {
	arr, isArr := vals.([]interface{})
	if !isArr || len(arr) != 3 {
		return false, 0, 0, false
	}
	return asInt64(arr[0]) == 1, asInt64(arr[1]), asInt64(arr[2]), true
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// buildRateKey picks the bucket. Advisor routes share one bucket per
// learner; visitors without a session fall back to their IP.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	if strings.EqualFold(cfg.KeyStrategy, "user") {
		if s := CurrentSession(c); s != nil && s.User.Email != "" {
			return cfg.Prefix + ":user:" + s.User.Email
		}
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return cfg.Prefix + ":ip:" + ip
}

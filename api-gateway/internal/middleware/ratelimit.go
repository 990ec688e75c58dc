package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"town-discovery/api-gateway/internal/config"
)

// NewRedisClient connects to the gateway's Redis database.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("connected to Redis", "addr", cfg.Addr)
	return client, nil
}

// Quota is a fixed-window request allowance. A Max of zero disables it.
type Quota struct {
	Name   string
	Max    int
	Window time.Duration
}

// tokenNamespace scopes the hashed caller IDs so raw bearer tokens never
// appear in Redis keys.
var tokenNamespace = uuid.MustParse("6f1c7a52-93c4-4c0e-9a3e-2d7b5f0e8a11")

// RateLimiter counts requests per caller and quota in Redis. Callers with a
// bearer token are counted per token; anonymous callers per client IP.
type RateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter creates a rate limiter. A nil client lets every request through.
func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Limit enforces q. It must run after AuthMiddleware so authenticated
// callers get their own bucket. Redis errors fail open.
func (rl *RateLimiter) Limit(q Quota) fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl.rdb == nil || q.Max <= 0 {
			return c.Next()
		}

		key := "ratelimit:" + q.Name + ":" + callerID(c)
		count, reset, err := rl.hit(c.Context(), key, q.Window)
		if err != nil {
			slog.Warn("rate limiter unavailable", "quota", q.Name, "error", err)
			return c.Next()
		}

		resetSec := int(reset.Round(time.Second) / time.Second)
		c.Set("X-RateLimit-Scope", q.Name)
		c.Set("X-RateLimit-Limit", strconv.Itoa(q.Max))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(q.Max)-count), 10))
		c.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > int64(q.Max) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(resetSec))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"quota":       q.Name,
				"retry_after": resetSec,
				"request_id":  c.Locals("request_id"),
			})
		}
		return c.Next()
	}
}

// hit counts one request and returns the window's count and time to reset.
// A counter without an expiry, such as one left by a crash between INCR and
// EXPIRE, gets a fresh window.
func (rl *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rl.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	reset := ttl.Val()
	if reset < 0 {
		if err := rl.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		reset = window
	}
	return incr.Val(), reset, nil
}

func callerID(c fiber.Ctx) string {
	if token, ok := c.Locals("auth_token").(string); ok && token != "" {
		return tokenCallerID(token)
	}
	return "ip:" + c.IP()
}

func tokenCallerID(token string) string {
	return "token:" + uuid.NewSHA1(tokenNamespace, []byte(token)).String()
}

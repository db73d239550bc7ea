package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisLoginFailureScript suma un fallo y arranca la ventana con el primero.
const redisLoginFailureScript = `
local failures = redis.call("INCR", KEYS[1])
if failures == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return failures
`

const redisLoginCallTimeout = 500 * time.Millisecond

type redisLoginClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// redisLoginRateLimiter comparte el contador de fallos entre instancias.
// Falla abierto: una caida de Redis nunca bloquea un login.
type redisLoginRateLimiter struct {
	client      redisLoginClient
	window      time.Duration
	maxFailures int
	prefix      string
}

func NewRedisLoginRateLimiter(client *redis.Client, window time.Duration, maxFailures int) LoginRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &redisLoginRateLimiter{
		client:      client,
		window:      window,
		maxFailures: maxFailures,
		prefix:      "login:failures:",
	}
}

func (l *redisLoginRateLimiter) Allow(key string) bool {
	redisKey, ok := l.key(key)
	if !ok {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisLoginCallTimeout)
	defer cancel()

	failures, err := l.client.Get(ctx, redisKey).Int()
	if err != nil {
		// redis.Nil: sin fallos registrados.
		return true
	}
	return failures <= l.maxFailures
}

func (l *redisLoginRateLimiter) RecordFailure(key string) {
	redisKey, ok := l.key(key)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisLoginCallTimeout)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	_ = l.client.Eval(ctx, redisLoginFailureScript, []string{redisKey}, seconds).Err()
}

func (l *redisLoginRateLimiter) Reset(key string) {
	redisKey, ok := l.key(key)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisLoginCallTimeout)
	defer cancel()

	_ = l.client.Del(ctx, redisKey).Err()
}

func (l *redisLoginRateLimiter) key(key string) (string, bool) {
	if l == nil || l.client == nil {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "" {
		return "", false
	}
	return l.prefix + normalized, true
}

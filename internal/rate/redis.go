package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// tokenBucketScript refills the bucket by elapsed time and takes one token.
// It returns {allowed, wait_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local requested = tonumber(ARGV[4])

	local info = redis.call("HMGET", key, "tokens", "last_refill")
	local tokens = tonumber(info[1])
	local last_refill = tonumber(info[2])

	if tokens == nil then
		tokens = capacity
		last_refill = now
	end

	local delta = math.max(0, now - last_refill)
	local filled_tokens = math.min(capacity, tokens + (delta / 1000 * rate))

	local allowed = 0
	local wait_ms = 0
	if filled_tokens >= requested then
		filled_tokens = filled_tokens - requested
		allowed = 1
	else
		wait_ms = math.ceil((requested - filled_tokens) / rate * 1000)
	end
	redis.call("HMSET", key, "tokens", filled_tokens, "last_refill", now)
	redis.call("EXPIRE", key, math.ceil(capacity / rate) * 2)

	return {allowed, wait_ms}
`)

// RedisLimiter shares buckets between server instances. Redis failures
// let the request through.
type RedisLimiter struct {
	client redis.UniversalClient
	log    logrus.FieldLogger
	prefix string
}

func NewRedis(client redis.UniversalClient, log logrus.FieldLogger) *RedisLimiter {
	return &RedisLimiter{client: client, log: log, prefix: "remarks:rate_limit:"}
}

// DialRedis connects to addr and checks the connection with a ping.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	if limit <= 0 || window <= 0 {
		return true, 0
	}
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	perSecond := float64(limit) / window.Seconds()
	keys := []string{l.prefix + key}
	args := []any{limit, perSecond, time.Now().UnixMilli(), 1}

	res, err := tokenBucketScript.Run(ctx, l.client, keys, args...).Int64Slice()
	if err != nil || len(res) != 2 {
		l.log.WithError(err).WithField("key", key).Warn("rate limiter redis error")
		return true, 0
	}
	if res[0] == 1 {
		return true, 0
	}
	return false, time.Duration(res[1]) * time.Millisecond
}

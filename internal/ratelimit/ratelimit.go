package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBucket is a Redis-backed per-actor token bucket. State lives in a
// Redis hash so concurrent API instances share the same budget.
type TokenBucket struct {
	redis    *redis.Client
	capacity int64
	refill   int64
	window   time.Duration
}

// NewTokenBucket creates a bucket holding capacity tokens, refilled at
// refillRate tokens per window (one minute).
func NewTokenBucket(redisClient *redis.Client, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
	}
}

// consumeScript refills based on elapsed time and takes one token if any
// remain. Runs as a single Lua eval so the refill+consume pair is atomic.
const consumeScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local time_passed = now - last_refill
	local tokens_to_add = math.floor((time_passed / window) * refill_rate)

	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
		last_refill = now
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return allowed
`

// remainingScript reports the current token count without consuming.
const remainingScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local time_passed = now - last_refill
	local tokens_to_add = math.floor((time_passed / window) * refill_rate)

	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
	end

	return tokens
`

func bucketKey(actorID, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", actorID, action)
}

// Allow consumes one token for the actor/action pair. Returns false when the
// bucket is empty.
func (tb *TokenBucket) Allow(ctx context.Context, actorID, action string) (bool, error) {
	result, err := tb.redis.Eval(ctx, consumeScript, []string{bucketKey(actorID, action)},
		tb.capacity, tb.refill, int64(tb.window.Seconds()), time.Now().Unix()).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}

	return allowed == 1, nil
}

// GetRemaining returns the number of tokens left for the actor/action pair.
func (tb *TokenBucket) GetRemaining(ctx context.Context, actorID, action string) (int64, error) {
	result, err := tb.redis.Eval(ctx, remainingScript, []string{bucketKey(actorID, action)},
		tb.capacity, tb.refill, int64(tb.window.Seconds()), time.Now().Unix()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}

	remaining, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type from remaining tokens script")
	}

	return remaining, nil
}

// Reset clears the bucket for the actor/action pair.
func (tb *TokenBucket) Reset(ctx context.Context, actorID, action string) error {
	return tb.redis.Del(ctx, bucketKey(actorID, action)).Err()
}

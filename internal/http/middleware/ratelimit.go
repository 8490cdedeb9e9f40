package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/Tyno1/bitescout-api/internal/ratelimit"
	"github.com/Tyno1/bitescout-api/internal/utils/response"
)

type RateLimitConfig struct {
	redisClient *redis.Client
	limiters    map[string]*ratelimit.TokenBucket
}

func NewRateLimitConfig(redisClient *redis.Client) *RateLimitConfig {
	config := &RateLimitConfig{
		redisClient: redisClient,
		limiters:    make(map[string]*ratelimit.TokenBucket),
	}

	// Uploads hit the storage provider; keep them at 10/min per actor.
	config.limiters["uploads"] = ratelimit.NewTokenBucket(redisClient, 10, 10)

	// Tag mutations each trigger a full analytics scan: 30/min per actor.
	config.limiters["tags"] = ratelimit.NewTokenBucket(redisClient, 30, 30)

	return config
}

func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Assumes auth middleware ran first.
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("user not authenticated")))
				return
			}

			limiter, exists := rlc.limiters[action]
			if !exists {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), actor.ID, action)
			if err != nil {
				// Fail open so a Redis hiccup doesn't take the API down.
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				remaining, _ := limiter.GetRemaining(r.Context(), actor.ID, action)
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					fmt.Errorf("rate limit exceeded for %s", action)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

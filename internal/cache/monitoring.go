package cache

import (
	"net/http"

	"github.com/go-redis/redis/v8"

	"github.com/Tyno1/bitescout-api/internal/utils/response"
)

// CacheStats represents cache performance statistics
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	CacheKeys      []string `json:"cache_keys_sample"`
	KeyCount       int      `json:"total_keys"`
}

// GetCacheStats returns cache performance statistics
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{RedisConnected: true}

		_, err := redisClient.Ping(ctx).Result()
		if err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		keys := redisClient.Keys(ctx, "media:*")
		if keys.Err() == nil {
			stats.CacheKeys = keys.Val()
			if len(stats.CacheKeys) > 10 {
				stats.CacheKeys = stats.CacheKeys[:10]
			}
		}

		dbSize := redisClient.DBSize(ctx)
		if dbSize.Err() == nil {
			stats.KeyCount = int(dbSize.Val())
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// ClearCache endpoint for administrative purposes
func ClearCache(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cacheType := r.URL.Query().Get("type")

		var pattern string
		switch cacheType {
		case "assoc":
			pattern = "media:assoc:*"
		case "uploader":
			pattern = "media:uploader:*"
		case "verified":
			pattern = "media:verified:*"
		case "all":
			pattern = "media:*"
		default:
			pattern = "media:*"
		}

		keys := redisClient.Keys(ctx, pattern)
		if keys.Err() != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(keys.Err()))
			return
		}

		if len(keys.Val()) == 0 {
			result := map[string]interface{}{
				"pattern":      pattern,
				"deleted_keys": 0,
			}
			response.WriteJSON(w, http.StatusOK, response.RequestOK("No cache keys to clear", result))
			return
		}

		deleted := redisClient.Del(ctx, keys.Val()...)
		if deleted.Err() != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(deleted.Err()))
			return
		}

		result := map[string]interface{}{
			"pattern":      pattern,
			"deleted_keys": deleted.Val(),
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache cleared successfully", result))
	}
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/types/users"
)

// CacheService wraps storage with Redis caching for the media read paths.
// Every media mutation invalidates the detail entry, the association lists
// it touches, and the broad list caches.
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
}

// NewCacheService creates a new cache service
func NewCacheService(st storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		storage: st,
		redis:   redisClient,
	}
}

// Cache key patterns
const (
	MediaKey         = "media:%s"                     // media:mediaID
	AssocListKey     = "media:assoc:%s:%s:p%d:l%d"    // media:assoc:type:id:page:limit
	UploaderListKey  = "media:uploader:%s:p%d:l%d"    // media:uploader:userID:page:limit
	VerifiedListKey  = "media:verified:%s:p%d:l%d"    // media:verified:typeFilter:page:limit
	AssocListPattern = "media:assoc:%s:%s:*"          // all pages for one association
	UploaderPattern  = "media:uploader:%s:*"          // all pages for one uploader
	VerifiedPattern  = "media:verified:*"             // all verified list pages
)

// Cache durations
const (
	MediaCacheDuration        = 5 * time.Minute
	AssocListCacheDuration    = 2 * time.Minute
	UploaderListCacheDuration = 2 * time.Minute
	VerifiedListCacheDuration = 3 * time.Minute
)

func (c *CacheService) getCached(ctx context.Context, key string, dest interface{}) bool {
	cached, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(cached), dest) == nil
}

func (c *CacheService) setCached(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, data, ttl)
}

func (c *CacheService) invalidatePattern(ctx context.Context, pattern string) {
	keys, err := c.redis.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.redis.Del(ctx, keys...)
}

// invalidateMedia clears every cache entry a media mutation can stale out.
func (c *CacheService) invalidateMedia(ctx context.Context, media types.Media) {
	c.redis.Del(ctx, fmt.Sprintf(MediaKey, media.ID))
	if media.AssociatedWith != nil && !media.AssociatedWith.IsZero() {
		c.invalidatePattern(ctx, fmt.Sprintf(AssocListPattern, media.AssociatedWith.Type, media.AssociatedWith.ID))
	}
	c.invalidatePattern(ctx, fmt.Sprintf(UploaderPattern, media.UploadedBy.ID))
	c.invalidatePattern(ctx, VerifiedPattern)
}

func (c *CacheService) CreateMedia(ctx context.Context, uploadedBy string, input types.CreateMediaRequest) (types.Media, error) {
	media, err := c.storage.CreateMedia(ctx, uploadedBy, input)
	if err != nil {
		return types.Media{}, err
	}

	c.invalidateMedia(ctx, media)
	return media, nil
}

func (c *CacheService) GetMediaByID(ctx context.Context, id string) (types.Media, error) {
	key := fmt.Sprintf(MediaKey, id)

	var media types.Media
	if c.getCached(ctx, key, &media) {
		return media, nil
	}

	media, err := c.storage.GetMediaByID(ctx, id)
	if err != nil {
		return types.Media{}, err
	}

	c.setCached(ctx, key, media, MediaCacheDuration)
	return media, nil
}

func (c *CacheService) ListMediaByAssociation(ctx context.Context, assocType types.AssociationType, assocID string, page, limit int) (types.MediaPage, error) {
	key := fmt.Sprintf(AssocListKey, assocType, assocID, page, limit)

	var result types.MediaPage
	if c.getCached(ctx, key, &result) {
		return result, nil
	}

	result, err := c.storage.ListMediaByAssociation(ctx, assocType, assocID, page, limit)
	if err != nil {
		return types.MediaPage{}, err
	}

	c.setCached(ctx, key, result, AssocListCacheDuration)
	return result, nil
}

func (c *CacheService) ListMediaByUploader(ctx context.Context, userID string, page, limit int) (types.MediaPage, error) {
	key := fmt.Sprintf(UploaderListKey, userID, page, limit)

	var result types.MediaPage
	if c.getCached(ctx, key, &result) {
		return result, nil
	}

	result, err := c.storage.ListMediaByUploader(ctx, userID, page, limit)
	if err != nil {
		return types.MediaPage{}, err
	}

	c.setCached(ctx, key, result, UploaderListCacheDuration)
	return result, nil
}

func (c *CacheService) ListVerifiedMedia(ctx context.Context, page, limit int, typeFilter types.AssociationType) (types.MediaPage, error) {
	key := fmt.Sprintf(VerifiedListKey, typeFilter, page, limit)

	var result types.MediaPage
	if c.getCached(ctx, key, &result) {
		return result, nil
	}

	result, err := c.storage.ListVerifiedMedia(ctx, page, limit, typeFilter)
	if err != nil {
		return types.MediaPage{}, err
	}

	c.setCached(ctx, key, result, VerifiedListCacheDuration)
	return result, nil
}

func (c *CacheService) UpdateMedia(ctx context.Context, id string, patch types.UpdateMediaRequest) (types.Media, error) {
	// Fetch first so the pre-update association lists get invalidated too.
	before, _ := c.storage.GetMediaByID(ctx, id)

	media, err := c.storage.UpdateMedia(ctx, id, patch)
	if err != nil {
		return types.Media{}, err
	}

	c.invalidateMedia(ctx, before)
	c.invalidateMedia(ctx, media)
	return media, nil
}

func (c *CacheService) DeleteMedia(ctx context.Context, id string) error {
	media, _ := c.storage.GetMediaByID(ctx, id)

	if err := c.storage.DeleteMedia(ctx, id); err != nil {
		return err
	}

	c.invalidateMedia(ctx, media)
	return nil
}

func (c *CacheService) ToggleMediaVerified(ctx context.Context, id string) (types.Media, error) {
	media, err := c.storage.ToggleMediaVerified(ctx, id)
	if err != nil {
		return types.Media{}, err
	}

	c.invalidateMedia(ctx, media)
	return media, nil
}

// Methods passed through to storage (implement storage.Storage interface).

func (c *CacheService) CreateRestaurant(ctx context.Context, name, address string) (types.Restaurant, error) {
	return c.storage.CreateRestaurant(ctx, name, address)
}

func (c *CacheService) GetRestaurantByID(ctx context.Context, id string) (types.Restaurant, error) {
	return c.storage.GetRestaurantByID(ctx, id)
}

func (c *CacheService) AddToRestaurantGallery(ctx context.Context, restaurantID, mediaID string) error {
	return c.storage.AddToRestaurantGallery(ctx, restaurantID, mediaID)
}

func (c *CacheService) CreatePost(ctx context.Context, userID string, req types.CreatePostRequest) (types.Post, error) {
	return c.storage.CreatePost(ctx, userID, req)
}

func (c *CacheService) GetPostByID(ctx context.Context, id string) (types.Post, error) {
	return c.storage.GetPostByID(ctx, id)
}

func (c *CacheService) TogglePostLike(ctx context.Context, postID, userID string) (bool, error) {
	return c.storage.TogglePostLike(ctx, postID, userID)
}

func (c *CacheService) UpsertFoodTag(ctx context.Context, postID string, tag types.TaggedFood) error {
	return c.storage.UpsertFoodTag(ctx, postID, tag)
}

func (c *CacheService) RemoveFoodTag(ctx context.Context, postID, foodCatalogueID string) error {
	return c.storage.RemoveFoodTag(ctx, postID, foodCatalogueID)
}

func (c *CacheService) ListPostsTaggingFood(ctx context.Context, foodCatalogueID string) ([]types.Post, error) {
	return c.storage.ListPostsTaggingFood(ctx, foodCatalogueID)
}

func (c *CacheService) CreateFoodCatalogue(ctx context.Context, name, cuisine, course string) (types.FoodCatalogue, error) {
	return c.storage.CreateFoodCatalogue(ctx, name, cuisine, course)
}

func (c *CacheService) GetFoodCatalogueByID(ctx context.Context, id string) (types.FoodCatalogue, error) {
	return c.storage.GetFoodCatalogueByID(ctx, id)
}

func (c *CacheService) UpdateFoodAnalytics(ctx context.Context, foodCatalogueID string, analytics types.FoodAnalytics) error {
	return c.storage.UpdateFoodAnalytics(ctx, foodCatalogueID, analytics)
}

func (c *CacheService) ListTaggedFoodIDs(ctx context.Context) ([]string, error) {
	return c.storage.ListTaggedFoodIDs(ctx)
}

func (c *CacheService) CreateUser(ctx context.Context, name, username, email, hashedPassword string) (string, error) {
	return c.storage.CreateUser(ctx, name, username, email, hashedPassword)
}

func (c *CacheService) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	return c.storage.GetUserByEmail(ctx, email)
}

func (c *CacheService) GetUserByID(ctx context.Context, id string) (users.User, error) {
	return c.storage.GetUserByID(ctx, id)
}

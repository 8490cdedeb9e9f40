package storage

import (
	"context"

	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/types/users"
)

// Storage is the persistence surface of the service. The Postgres
// implementation is the system of record; the cache package wraps it.
type Storage interface {
	// Media record store and association index.
	CreateMedia(ctx context.Context, uploadedBy string, input types.CreateMediaRequest) (types.Media, error)
	GetMediaByID(ctx context.Context, id string) (types.Media, error)
	ListMediaByAssociation(ctx context.Context, assocType types.AssociationType, assocID string, page, limit int) (types.MediaPage, error)
	ListMediaByUploader(ctx context.Context, userID string, page, limit int) (types.MediaPage, error)
	ListVerifiedMedia(ctx context.Context, page, limit int, typeFilter types.AssociationType) (types.MediaPage, error)
	UpdateMedia(ctx context.Context, id string, patch types.UpdateMediaRequest) (types.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	ToggleMediaVerified(ctx context.Context, id string) (types.Media, error)

	// Restaurants.
	CreateRestaurant(ctx context.Context, name, address string) (types.Restaurant, error)
	GetRestaurantByID(ctx context.Context, id string) (types.Restaurant, error)
	AddToRestaurantGallery(ctx context.Context, restaurantID, mediaID string) error

	// Posts and food tags.
	CreatePost(ctx context.Context, userID string, req types.CreatePostRequest) (types.Post, error)
	GetPostByID(ctx context.Context, id string) (types.Post, error)
	TogglePostLike(ctx context.Context, postID, userID string) (bool, error)
	UpsertFoodTag(ctx context.Context, postID string, tag types.TaggedFood) error
	RemoveFoodTag(ctx context.Context, postID, foodCatalogueID string) error
	ListPostsTaggingFood(ctx context.Context, foodCatalogueID string) ([]types.Post, error)

	// Food catalogue.
	CreateFoodCatalogue(ctx context.Context, name, cuisine, course string) (types.FoodCatalogue, error)
	GetFoodCatalogueByID(ctx context.Context, id string) (types.FoodCatalogue, error)
	UpdateFoodAnalytics(ctx context.Context, foodCatalogueID string, analytics types.FoodAnalytics) error
	ListTaggedFoodIDs(ctx context.Context) ([]string, error)

	// Users.
	CreateUser(ctx context.Context, name, username, email, hashedPassword string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (users.User, error)
	GetUserByID(ctx context.Context, id string) (users.User, error)
}

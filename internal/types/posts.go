package types

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type TagType string

const (
	TagPrimary   TagType = "primary"
	TagSecondary TagType = "secondary"
	TagMentioned TagType = "mentioned"
	TagReviewed  TagType = "reviewed"
)

func (t TagType) Valid() bool {
	switch t {
	case TagPrimary, TagSecondary, TagMentioned, TagReviewed:
		return true
	}
	return false
}

// TaggedFood is one food-catalogue tag on a post. A post carries at most one
// entry per food id (find-or-create-then-update semantics).
type TaggedFood struct {
	FoodCatalogueID string    `json:"food_catalogue_id"`
	TagType         TagType   `json:"tag_type"`
	Rating          *int      `json:"rating,omitempty"`
	Review          string    `json:"review,omitempty"`
	TaggedAt        time.Time `json:"tagged_at"`
}

// Post is a user-authored content item. Likes are a set of user ids with
// toggle semantics; Media is the ordered list of attached media ids.
type Post struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Caption     string       `json:"caption,omitempty"`
	Visibility  Visibility   `json:"visibility"`
	Media       []string     `json:"media,omitempty"`
	TaggedFoods []TaggedFood `json:"tagged_foods,omitempty"`
	Likes       []string     `json:"likes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type CreatePostRequest struct {
	Caption    string     `json:"caption"`
	Visibility Visibility `json:"visibility"`
	Media      []string   `json:"media"`
}

// TagFoodRequest adds or updates the tag entry for one food id on a post.
type TagFoodRequest struct {
	FoodCatalogueID string  `json:"food_catalogue_id" validate:"required"`
	TagType         TagType `json:"tag_type" validate:"required"`
	Rating          *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Review          string  `json:"review" validate:"max=200"`
}

// FoodAnalytics is the denormalized summary recomputed wholesale on every
// tag mutation. LastMentioned is nil when nothing tags the food.
type FoodAnalytics struct {
	TotalMentions int        `json:"total_mentions"`
	TotalLikes    int        `json:"total_likes"`
	AverageRating float64    `json:"average_rating"`
	TotalRatings  int        `json:"total_ratings"`
	TrendingScore float64    `json:"trending_score"`
	LastMentioned *time.Time `json:"last_mentioned"`
}

// FoodCatalogue is one entry of the food catalogue.
type FoodCatalogue struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Cuisine   string        `json:"cuisine,omitempty"`
	Course    string        `json:"course,omitempty"`
	Analytics FoodAnalytics `json:"analytics"`
	CreatedAt time.Time     `json:"created_at"`
}

// Restaurant carries the gallery the cross-entity linker writes into.
type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Gallery   []string  `json:"gallery,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Package analytics maintains the denormalized per-food aggregates on the
// food catalogue.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
)

// recencyWindowDays is the span of the trending bonus: a post contributes
// its like count plus max(0, 30 - daysSincePosted).
const recencyWindowDays = 30

// Recomputer recalculates the analytics for one food-catalogue entry.
// Callers depend on this interface so the full-scan implementation below can
// later be replaced by an incremental one without touching them.
type Recomputer interface {
	Recompute(ctx context.Context, foodCatalogueID string) error
}

// Service is the full-scan Recomputer: every run reads all posts tagging
// the food and writes the aggregates back wholesale. Two concurrent runs for
// the same food id can race read-vs-write; the later write wins and may
// carry a stale snapshot. That is a known limitation, not guarded here.
type Service struct {
	storage storage.Storage
	now     func() time.Time
}

func New(st storage.Storage) *Service {
	return &Service{storage: st, now: time.Now}
}

// NewWithClock is used by tests that need a fixed notion of "now".
func NewWithClock(st storage.Storage, now func() time.Time) *Service {
	return &Service{storage: st, now: now}
}

func (s *Service) Recompute(ctx context.Context, foodCatalogueID string) error {
	posts, err := s.storage.ListPostsTaggingFood(ctx, foodCatalogueID)
	if err != nil {
		return fmt.Errorf("failed to scan tagging posts: %w", err)
	}

	summary := Compute(posts, foodCatalogueID, s.now())

	if err := s.storage.UpdateFoodAnalytics(ctx, foodCatalogueID, summary); err != nil {
		return fmt.Errorf("failed to write analytics: %w", err)
	}

	return nil
}

// Compute derives the analytics summary from the set of posts tagging the
// food. Exposed as a pure function so the aggregation itself is testable
// without storage.
func Compute(posts []types.Post, foodCatalogueID string, now time.Time) types.FoodAnalytics {
	var summary types.FoodAnalytics

	summary.TotalMentions = len(posts)

	var ratingSum int
	for _, post := range posts {
		likeCount := len(post.Likes)
		summary.TotalLikes += likeCount

		for _, tag := range post.TaggedFoods {
			if tag.FoodCatalogueID != foodCatalogueID {
				continue
			}
			if tag.Rating != nil {
				summary.TotalRatings++
				ratingSum += *tag.Rating
			}
		}

		daysSincePosted := now.Sub(post.CreatedAt).Hours() / 24
		recencyBonus := recencyWindowDays - daysSincePosted
		if recencyBonus < 0 {
			recencyBonus = 0
		}
		summary.TrendingScore += float64(likeCount) + recencyBonus
	}

	if summary.TotalRatings > 0 {
		summary.AverageRating = float64(ratingSum) / float64(summary.TotalRatings)
	}

	if summary.TotalMentions > 0 {
		t := now
		summary.LastMentioned = &t
	}

	return summary
}

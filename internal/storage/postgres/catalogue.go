package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

func (p *Postgres) CreateFoodCatalogue(ctx context.Context, name, cuisine, course string) (types.FoodCatalogue, error) {
	id := uuid.New().String()

	_, err := p.Db.ExecContext(ctx,
		`INSERT INTO food_catalogue (id, name, cuisine, course) VALUES ($1, $2, $3, $4)`,
		id, name, cuisine, course)
	if err != nil {
		return types.FoodCatalogue{}, fmt.Errorf("failed to create food catalogue entry: %w", err)
	}

	return p.GetFoodCatalogueByID(ctx, id)
}

func (p *Postgres) GetFoodCatalogueByID(ctx context.Context, id string) (types.FoodCatalogue, error) {
	var (
		food          types.FoodCatalogue
		lastMentioned sql.NullTime
	)

	err := p.Db.QueryRowContext(ctx, `
	SELECT id, name, cuisine, course,
		total_mentions, total_likes, average_rating, total_ratings,
		trending_score, last_mentioned, created_at
	FROM food_catalogue WHERE id = $1
	`, id).Scan(
		&food.ID, &food.Name, &food.Cuisine, &food.Course,
		&food.Analytics.TotalMentions, &food.Analytics.TotalLikes,
		&food.Analytics.AverageRating, &food.Analytics.TotalRatings,
		&food.Analytics.TrendingScore, &lastMentioned, &food.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return types.FoodCatalogue{}, fmt.Errorf("%w: food catalogue entry %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return types.FoodCatalogue{}, fmt.Errorf("failed to fetch food catalogue entry: %w", err)
	}

	if lastMentioned.Valid {
		t := lastMentioned.Time
		food.Analytics.LastMentioned = &t
	}

	return food, nil
}

// UpdateFoodAnalytics replaces the analytics sub-object wholesale
// (last-write-wins, no merge with concurrent writers).
func (p *Postgres) UpdateFoodAnalytics(ctx context.Context, foodCatalogueID string, analytics types.FoodAnalytics) error {
	var lastMentioned interface{}
	if analytics.LastMentioned != nil {
		lastMentioned = analytics.LastMentioned.UTC().Format(time.RFC3339Nano)
	}

	res, err := p.Db.ExecContext(ctx, `
	UPDATE food_catalogue
	SET total_mentions = $2, total_likes = $3, average_rating = $4,
		total_ratings = $5, trending_score = $6, last_mentioned = $7
	WHERE id = $1
	`, foodCatalogueID, analytics.TotalMentions, analytics.TotalLikes,
		analytics.AverageRating, analytics.TotalRatings,
		analytics.TrendingScore, lastMentioned)
	if err != nil {
		return fmt.Errorf("failed to update food analytics: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: food catalogue entry %s", apperr.ErrNotFound, foodCatalogueID)
	}
	return nil
}

// ListTaggedFoodIDs returns the distinct food ids referenced by at least one
// tag. Used by the backfill worker.
func (p *Postgres) ListTaggedFoodIDs(ctx context.Context) ([]string, error) {
	rows, err := p.Db.QueryContext(ctx, `SELECT DISTINCT food_catalogue_id FROM tagged_foods`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tagged food ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

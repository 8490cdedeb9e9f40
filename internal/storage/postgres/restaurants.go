package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

func (p *Postgres) CreateRestaurant(ctx context.Context, name, address string) (types.Restaurant, error) {
	id := uuid.New().String()

	_, err := p.Db.ExecContext(ctx,
		`INSERT INTO restaurants (id, name, address) VALUES ($1, $2, $3)`,
		id, name, address)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("failed to create restaurant: %w", err)
	}

	return p.GetRestaurantByID(ctx, id)
}

func (p *Postgres) GetRestaurantByID(ctx context.Context, id string) (types.Restaurant, error) {
	var restaurant types.Restaurant
	err := p.Db.QueryRowContext(ctx,
		`SELECT id, name, address, created_at FROM restaurants WHERE id = $1`, id).
		Scan(&restaurant.ID, &restaurant.Name, &restaurant.Address, &restaurant.CreatedAt)
	if err == sql.ErrNoRows {
		return types.Restaurant{}, fmt.Errorf("%w: restaurant %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("failed to fetch restaurant: %w", err)
	}

	rows, err := p.Db.QueryContext(ctx,
		`SELECT media_id FROM restaurant_gallery WHERE restaurant_id = $1 ORDER BY added_at`, id)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("failed to fetch gallery: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mediaID string
		if err := rows.Scan(&mediaID); err != nil {
			return types.Restaurant{}, err
		}
		restaurant.Gallery = append(restaurant.Gallery, mediaID)
	}

	return restaurant, rows.Err()
}

// AddToRestaurantGallery adds the media id to the gallery set. Re-adding an
// existing entry is a no-op, which is what makes re-linking idempotent.
func (p *Postgres) AddToRestaurantGallery(ctx context.Context, restaurantID, mediaID string) error {
	_, err := p.Db.ExecContext(ctx,
		`INSERT INTO restaurant_gallery (restaurant_id, media_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		restaurantID, mediaID)
	if err != nil {
		return fmt.Errorf("failed to add media to gallery: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

func (p *Postgres) CreatePost(ctx context.Context, userID string, req types.CreatePostRequest) (types.Post, error) {
	id := uuid.New().String()

	visibility := req.Visibility
	if visibility == "" {
		visibility = types.VisibilityPublic
	}

	_, err := p.Db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, caption, visibility) VALUES ($1, $2, $3, $4)`,
		id, userID, req.Caption, visibility)
	if err != nil {
		return types.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	for i, mediaID := range req.Media {
		_, err := p.Db.ExecContext(ctx,
			`INSERT INTO post_media (post_id, media_id, position) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			id, mediaID, i)
		if err != nil {
			return types.Post{}, fmt.Errorf("failed to attach media to post: %w", err)
		}
	}

	return p.GetPostByID(ctx, id)
}

func (p *Postgres) GetPostByID(ctx context.Context, id string) (types.Post, error) {
	var post types.Post
	err := p.Db.QueryRowContext(ctx,
		`SELECT id, user_id, caption, visibility, created_at FROM posts WHERE id = $1`, id).
		Scan(&post.ID, &post.UserID, &post.Caption, &post.Visibility, &post.CreatedAt)
	if err == sql.ErrNoRows {
		return types.Post{}, fmt.Errorf("%w: post %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return types.Post{}, fmt.Errorf("failed to fetch post: %w", err)
	}

	posts := []types.Post{post}
	if err := p.hydratePosts(ctx, posts); err != nil {
		return types.Post{}, err
	}

	return posts[0], nil
}

// hydratePosts fills media lists, like sets and food tags for a batch of
// posts in three grouped queries.
func (p *Postgres) hydratePosts(ctx context.Context, posts []types.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	index := make(map[string]*types.Post, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = &posts[i]
	}

	mediaRows, err := p.Db.QueryContext(ctx,
		`SELECT post_id, media_id FROM post_media WHERE post_id = ANY($1) ORDER BY position`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch post media: %w", err)
	}
	defer mediaRows.Close()
	for mediaRows.Next() {
		var postID, mediaID string
		if err := mediaRows.Scan(&postID, &mediaID); err != nil {
			return err
		}
		index[postID].Media = append(index[postID].Media, mediaID)
	}
	if err := mediaRows.Err(); err != nil {
		return err
	}

	likeRows, err := p.Db.QueryContext(ctx,
		`SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch post likes: %w", err)
	}
	defer likeRows.Close()
	for likeRows.Next() {
		var postID, userID string
		if err := likeRows.Scan(&postID, &userID); err != nil {
			return err
		}
		index[postID].Likes = append(index[postID].Likes, userID)
	}
	if err := likeRows.Err(); err != nil {
		return err
	}

	tagRows, err := p.Db.QueryContext(ctx,
		`SELECT post_id, food_catalogue_id, tag_type, rating, review, tagged_at
		 FROM tagged_foods WHERE post_id = ANY($1) ORDER BY tagged_at`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch food tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var (
			postID string
			tag    types.TaggedFood
			rating sql.NullInt64
		)
		if err := tagRows.Scan(&postID, &tag.FoodCatalogueID, &tag.TagType, &rating, &tag.Review, &tag.TaggedAt); err != nil {
			return err
		}
		if rating.Valid {
			r := int(rating.Int64)
			tag.Rating = &r
		}
		index[postID].TaggedFoods = append(index[postID].TaggedFoods, tag)
	}
	return tagRows.Err()
}

// TogglePostLike adds the user to the post's like set, or removes them if
// already present. Returns whether the post ends up liked.
func (p *Postgres) TogglePostLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := p.Db.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to like post: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		return true, nil
	}

	_, err = p.Db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to unlike post: %w", err)
	}
	return false, nil
}

// UpsertFoodTag implements find-or-create-then-update for the (post, food)
// tag entry.
func (p *Postgres) UpsertFoodTag(ctx context.Context, postID string, tag types.TaggedFood) error {
	var rating interface{}
	if tag.Rating != nil {
		rating = *tag.Rating
	}

	_, err := p.Db.ExecContext(ctx, `
	INSERT INTO tagged_foods (post_id, food_catalogue_id, tag_type, rating, review, tagged_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (post_id, food_catalogue_id)
	DO UPDATE SET tag_type = EXCLUDED.tag_type, rating = EXCLUDED.rating,
		review = EXCLUDED.review, tagged_at = EXCLUDED.tagged_at
	`, postID, tag.FoodCatalogueID, tag.TagType, rating, tag.Review, tag.TaggedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert food tag: %w", err)
	}
	return nil
}

func (p *Postgres) RemoveFoodTag(ctx context.Context, postID, foodCatalogueID string) error {
	res, err := p.Db.ExecContext(ctx,
		`DELETE FROM tagged_foods WHERE post_id = $1 AND food_catalogue_id = $2`,
		postID, foodCatalogueID)
	if err != nil {
		return fmt.Errorf("failed to remove food tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: tag for food %s on post %s", apperr.ErrNotFound, foodCatalogueID, postID)
	}
	return nil
}

// ListPostsTaggingFood returns every post whose tag list contains the food
// id, fully hydrated. This is the full scan the analytics recomputation
// runs over.
func (p *Postgres) ListPostsTaggingFood(ctx context.Context, foodCatalogueID string) ([]types.Post, error) {
	rows, err := p.Db.QueryContext(ctx, `
	SELECT p.id, p.user_id, p.caption, p.visibility, p.created_at
	FROM posts p
	JOIN tagged_foods tf ON tf.post_id = p.id
	WHERE tf.food_catalogue_id = $1
	ORDER BY p.created_at DESC
	`, foodCatalogueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tagging posts: %w", err)
	}
	defer rows.Close()

	var posts []types.Post
	for rows.Next() {
		var post types.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Caption, &post.Visibility, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := p.hydratePosts(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

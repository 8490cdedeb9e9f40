package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

// mediaColumns is the select list shared by every media query. The join to
// users expands the uploader in the same round trip.
const mediaColumns = `
	m.id, m.url, m.type, m.title, m.description,
	m.associated_type, m.associated_id, m.verified,
	m.file_size, m.mime_type, m.width, m.height,
	m.provider, m.provider_id, m.created_at, m.updated_at,
	u.id, u.name, u.username, u.image_url`

func scanMedia(row interface{ Scan(...interface{}) error }) (types.Media, error) {
	var (
		m          types.Media
		assocType  sql.NullString
		assocID    sql.NullString
		width      sql.NullInt64
		height     sql.NullInt64
		provider   sql.NullString
		providerID sql.NullString
	)

	err := row.Scan(
		&m.ID, &m.URL, &m.Type, &m.Title, &m.Description,
		&assocType, &assocID, &m.Verified,
		&m.FileSize, &m.MimeType, &width, &height,
		&provider, &providerID, &m.CreatedAt, &m.UpdatedAt,
		&m.UploadedBy.ID, &m.UploadedBy.Name, &m.UploadedBy.Username, &m.UploadedBy.ImageURL,
	)
	if err != nil {
		return types.Media{}, err
	}

	if assocType.Valid && assocID.Valid {
		m.AssociatedWith = &types.AssociatedWith{
			Type: types.AssociationType(assocType.String),
			ID:   assocID.String,
		}
	}
	if width.Valid && height.Valid {
		m.Dimensions = &types.Dimensions{Width: int(width.Int64), Height: int(height.Int64)}
	}
	m.Provider = types.StorageProvider(provider.String)
	m.ProviderID = providerID.String

	return m, nil
}

func (p *Postgres) CreateMedia(ctx context.Context, uploadedBy string, input types.CreateMediaRequest) (types.Media, error) {
	id := uuid.New().String()

	var assocType, assocID interface{}
	if input.AssociatedWith != nil && !input.AssociatedWith.IsZero() {
		assocType = string(input.AssociatedWith.Type)
		assocID = input.AssociatedWith.ID
	}

	var width, height interface{}
	if input.Dimensions != nil {
		width = input.Dimensions.Width
		height = input.Dimensions.Height
	}

	query := `
	INSERT INTO media (id, url, type, title, description, uploaded_by,
		associated_type, associated_id, file_size, mime_type, width, height,
		provider, provider_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := p.Db.ExecContext(ctx, query, id, input.URL, input.Type,
		input.Title, input.Description, uploadedBy, assocType, assocID,
		input.FileSize, input.MimeType, width, height,
		string(input.Provider), input.ProviderID)
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to create media record: %w", err)
	}

	return p.GetMediaByID(ctx, id)
}

func (p *Postgres) GetMediaByID(ctx context.Context, id string) (types.Media, error) {
	query := `
	SELECT ` + mediaColumns + `
	FROM media m
	JOIN users u ON m.uploaded_by = u.id
	WHERE m.id = $1
	`

	m, err := scanMedia(p.Db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return types.Media{}, fmt.Errorf("%w: media %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to fetch media: %w", err)
	}

	return m, nil
}

// listMedia runs a count plus a paginated select for an arbitrary WHERE
// clause, newest records first.
func (p *Postgres) listMedia(ctx context.Context, where string, page, limit int, args ...interface{}) (types.MediaPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM media m WHERE ` + where
	if err := p.Db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return types.MediaPage{}, fmt.Errorf("failed to count media: %w", err)
	}

	query := fmt.Sprintf(`
	SELECT `+mediaColumns+`
	FROM media m
	JOIN users u ON m.uploaded_by = u.id
	WHERE %s
	ORDER BY m.created_at DESC
	LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := p.Db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return types.MediaPage{}, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	items := []types.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return types.MediaPage{}, fmt.Errorf("failed to scan media row: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return types.MediaPage{}, err
	}

	return types.MediaPage{
		Items:      items,
		Pagination: types.NewPagination(page, limit, total),
	}, nil
}

func (p *Postgres) ListMediaByAssociation(ctx context.Context, assocType types.AssociationType, assocID string, page, limit int) (types.MediaPage, error) {
	return p.listMedia(ctx, `m.associated_type = $1 AND m.associated_id = $2`, page, limit, string(assocType), assocID)
}

func (p *Postgres) ListMediaByUploader(ctx context.Context, userID string, page, limit int) (types.MediaPage, error) {
	return p.listMedia(ctx, `m.uploaded_by = $1`, page, limit, userID)
}

func (p *Postgres) ListVerifiedMedia(ctx context.Context, page, limit int, typeFilter types.AssociationType) (types.MediaPage, error) {
	if typeFilter != "" {
		return p.listMedia(ctx, `m.verified = TRUE AND m.associated_type = $1`, page, limit, string(typeFilter))
	}
	return p.listMedia(ctx, `m.verified = TRUE`, page, limit)
}

func (p *Postgres) UpdateMedia(ctx context.Context, id string, patch types.UpdateMediaRequest) (types.Media, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(*patch.Title))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+arg(*patch.Description))
	}
	if patch.AssociatedWith != nil {
		if patch.AssociatedWith.IsZero() {
			sets = append(sets, "associated_type = NULL", "associated_id = NULL")
		} else {
			sets = append(sets, "associated_type = "+arg(string(patch.AssociatedWith.Type)))
			sets = append(sets, "associated_id = "+arg(patch.AssociatedWith.ID))
		}
	}

	query := fmt.Sprintf(`UPDATE media SET %s WHERE id = %s`,
		strings.Join(sets, ", "), arg(id))

	res, err := p.Db.ExecContext(ctx, query, args...)
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to update media: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Media{}, fmt.Errorf("%w: media %s", apperr.ErrNotFound, id)
	}

	return p.GetMediaByID(ctx, id)
}

// DeleteMedia removes the record only. Embedded references elsewhere
// (post media lists, restaurant galleries) are left in place.
func (p *Postgres) DeleteMedia(ctx context.Context, id string) error {
	res, err := p.Db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: media %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (p *Postgres) ToggleMediaVerified(ctx context.Context, id string) (types.Media, error) {
	res, err := p.Db.ExecContext(ctx,
		`UPDATE media SET verified = NOT verified, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to toggle verification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Media{}, fmt.Errorf("%w: media %s", apperr.ErrNotFound, id)
	}

	return p.GetMediaByID(ctx, id)
}

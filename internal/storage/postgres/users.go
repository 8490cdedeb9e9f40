package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Tyno1/bitescout-api/internal/types/users"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

func (p *Postgres) CreateUser(ctx context.Context, name, username, email, hashedPassword string) (string, error) {
	id := uuid.New().String()

	_, err := p.Db.ExecContext(ctx,
		`INSERT INTO users (id, name, username, email, password) VALUES ($1, $2, $3, $4, $5)`,
		id, name, username, email, hashedPassword)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return id, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	return p.getUser(ctx, `email = $1`, email)
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (users.User, error) {
	return p.getUser(ctx, `id = $1`, id)
}

func (p *Postgres) getUser(ctx context.Context, where string, arg interface{}) (users.User, error) {
	var user users.User
	query := `SELECT id, name, username, email, password, image_url, role, created_at FROM users WHERE ` + where

	err := p.Db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Username, &user.Email,
		&user.Password, &user.ImageURL, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return users.User{}, fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	if err != nil {
		return users.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}

	return user, nil
}

package postgres

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/Tyno1/bitescout-api/internal/config"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	pg := &Postgres{Db: db}
	err = pg.CreateTables()
	if err != nil {
		log.Fatal("Failed to create tables:", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			image_url TEXT DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'moderator', 'admin')),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS media (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL,
			type VARCHAR(10) NOT NULL CHECK (type IN ('image', 'video', 'audio')),
			title TEXT DEFAULT '',
			description TEXT DEFAULT '',
			uploaded_by UUID NOT NULL REFERENCES users(id),
			associated_type VARCHAR(20) CHECK (associated_type IN ('post', 'dish', 'restaurant', 'user')),
			associated_id TEXT,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			file_size BIGINT DEFAULT 0,
			mime_type VARCHAR(100) DEFAULT '',
			width INTEGER,
			height INTEGER,
			provider VARCHAR(20) DEFAULT '',
			provider_id TEXT DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_media_association ON media (associated_type, associated_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_media_uploader ON media (uploaded_by, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_media_verified ON media (verified, created_at DESC);`,
		`
		CREATE TABLE IF NOT EXISTS restaurants (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address TEXT DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS restaurant_gallery (
			restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			media_id UUID NOT NULL,
			added_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (restaurant_id, media_id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			caption TEXT DEFAULT '',
			visibility VARCHAR(20) NOT NULL DEFAULT 'public' CHECK (visibility IN ('public', 'private')),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS post_media (
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			media_id UUID NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (post_id, media_id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS post_likes (
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			liked_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (post_id, user_id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS food_catalogue (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			cuisine VARCHAR(100) DEFAULT '',
			course VARCHAR(100) DEFAULT '',
			total_mentions INTEGER NOT NULL DEFAULT 0,
			total_likes INTEGER NOT NULL DEFAULT 0,
			average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_ratings INTEGER NOT NULL DEFAULT 0,
			trending_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_mentioned TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS tagged_foods (
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			food_catalogue_id UUID NOT NULL REFERENCES food_catalogue(id),
			tag_type VARCHAR(20) NOT NULL CHECK (tag_type IN ('primary', 'secondary', 'mentioned', 'reviewed')),
			rating INTEGER CHECK (rating BETWEEN 1 AND 5),
			review VARCHAR(200) DEFAULT '',
			tagged_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (post_id, food_catalogue_id)
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_tagged_foods_food ON tagged_foods (food_catalogue_id);`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

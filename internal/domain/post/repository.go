package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/neighborly/neighborly-api/internal/pkg/database"
)

// Repository defines post data access interface
type Repository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	// CreateComment inserts the comment and bumps the post comment count atomically
	CreateComment(ctx context.Context, comment *Comment) error
}

const postSelectColumns = `
	id, author_id, author_snapshot, type, title, description,
	service_type, price_type, price_min, price_max, delivery_mode, meeting_preference,
	zipcode, is_active, comment_count, booking_count, created_at, updated_at
`

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new post repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (
			id, author_id, author_snapshot, type, title, description,
			service_type, price_type, price_min, price_max, delivery_mode, meeting_preference,
			zipcode, is_active, created_at, updated_at
		) VALUES (
			:id, :author_id, :author_snapshot, :type, :title, :description,
			:service_type, :price_type, :price_min, :price_max, :delivery_mode, :meeting_preference,
			:zipcode, :is_active, :created_at, :updated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("post repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	query := `SELECT ` + postSelectColumns + ` FROM posts WHERE id = $1`

	var p Post
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("post repository get: %w", err)
	}
	return &p, nil
}

func (r *repository) CreateComment(ctx context.Context, c *Comment) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO post_comments (id, post_id, author_id, author_snapshot, text, created_at)
			VALUES (:id, :post_id, :author_id, :author_snapshot, :text, :created_at)
		`
		if _, err := tx.NamedExecContext(ctx, insert, c); err != nil {
			return fmt.Errorf("post repository create comment: %w", err)
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE posts SET comment_count = comment_count + 1, updated_at = NOW() WHERE id = $1`,
			c.PostID)
		if err != nil {
			return fmt.Errorf("post repository increment comment count: %w", err)
		}
		return nil
	})
}

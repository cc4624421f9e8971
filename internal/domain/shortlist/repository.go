package shortlist

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines shortlist data access interface
type Repository interface {
	// CreateOrGet inserts s unless the teen already shortlisted the post, in
	// which case the existing row is returned with created=false.
	CreateOrGet(ctx context.Context, s *Shortlist) (existing *Shortlist, created bool, err error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new shortlist repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrGet(ctx context.Context, s *Shortlist) (*Shortlist, bool, error) {
	insert := `
		INSERT INTO shortlists (id, teen_id, parent_id, post_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (teen_id, post_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, insert, s.ID, s.TeenID, s.ParentID, s.PostID, s.Note, s.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("shortlist repository insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("shortlist repository rows: %w", err)
	}
	if n == 1 {
		return s, true, nil
	}

	var existing Shortlist
	query := `
		SELECT id, teen_id, parent_id, post_id, note, created_at
		FROM shortlists WHERE teen_id = $1 AND post_id = $2
	`
	if err := r.db.GetContext(ctx, &existing, query, s.TeenID, s.PostID); err != nil {
		return nil, false, fmt.Errorf("shortlist repository get existing: %w", err)
	}
	return &existing, false, nil
}

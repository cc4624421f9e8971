package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/neighborly/neighborly-api/internal/pkg/database"
)

// Repository defines booking data access interface
type Repository interface {
	// Create inserts the request and bumps the post booking count in one
	// transaction. A second pending request for the same post and requester
	// fails with ErrDuplicatePending.
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	HasPending(ctx context.Context, postID, requesterID uuid.UUID) (bool, error)
	// UpdateStatus moves the request from expected to next only if its status is
	// still expected. ok is false when another call changed it first.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status, respondedAt sql.NullTime, now time.Time) (ok bool, err error)
}

const requestSelectColumns = `
	id, post_id, requester_id, provider_id, status, message, post_snapshot,
	created_at, responded_at, updated_at
`

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO booking_requests (
				id, post_id, requester_id, provider_id, status, message, post_snapshot,
				created_at, responded_at, updated_at
			) VALUES (
				:id, :post_id, :requester_id, :provider_id, :status, :message, :post_snapshot,
				:created_at, :responded_at, :updated_at
			)
		`
		if _, err := tx.NamedExecContext(ctx, insert, req); err != nil {
			return mapCreateError(err)
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE posts SET booking_count = booking_count + 1, updated_at = NOW() WHERE id = $1`,
			req.PostID)
		if err != nil {
			return fmt.Errorf("booking repository increment post count: %w", err)
		}
		return nil
	})
}

func mapCreateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %w", ErrDuplicatePending, err)
	}
	return fmt.Errorf("booking repository create: %w", err)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	query := `SELECT ` + requestSelectColumns + ` FROM booking_requests WHERE id = $1`

	var req Request
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("booking repository get: %w", err)
	}
	return &req, nil
}

func (r *repository) HasPending(ctx context.Context, postID, requesterID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM booking_requests
			WHERE post_id = $1 AND requester_id = $2 AND status = 'pending'
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, postID, requesterID); err != nil {
		return false, fmt.Errorf("booking repository has pending: %w", err)
	}
	return exists, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status, respondedAt sql.NullTime, now time.Time) (bool, error) {
	query := `
		UPDATE booking_requests
		SET status = $3,
		    responded_at = COALESCE($4, responded_at),
		    updated_at = $5
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, expected, next, respondedAt, now)
	if err != nil {
		return false, fmt.Errorf("booking repository update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("booking repository update status rows: %w", err)
	}
	return n == 1, nil
}

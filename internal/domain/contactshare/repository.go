package contactshare

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/neighborly/neighborly-api/internal/domain/conversation"
	"github.com/neighborly/neighborly-api/internal/pkg/database"
)

// Repository defines contact share data access interface
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Share, error)
	Find(ctx context.Context, bookingRequestID, fromUserID uuid.UUID, t Type) (*Share, error)
	// CreateOrGet inserts s and, when notice is non-nil and the row is new,
	// appends notice to its conversation in the same transaction.
	CreateOrGet(ctx context.Context, s *Share, notice *conversation.Message) (stored *Share, created bool, err error)
	// Respond moves a pending share to status. ok is false when the share was
	// no longer pending. A non-nil notice is appended in the same transaction.
	Respond(ctx context.Context, id uuid.UUID, status Status, by uuid.UUID, at time.Time, notice *conversation.Message) (ok bool, err error)
}

const shareSelectColumns = `
	id, booking_request_id, from_user_id, to_user_id, type, value, status,
	responded_by, responded_at, created_at
`

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new contact share repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Share, error) {
	var s Share
	err := r.db.GetContext(ctx, &s, `SELECT `+shareSelectColumns+` FROM contact_shares WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("contact share repository get: %w", err)
	}
	return &s, nil
}

func (r *repository) Find(ctx context.Context, bookingRequestID, fromUserID uuid.UUID, t Type) (*Share, error) {
	query := `SELECT ` + shareSelectColumns + `
		FROM contact_shares
		WHERE booking_request_id = $1 AND from_user_id = $2 AND type = $3`

	var s Share
	if err := r.db.GetContext(ctx, &s, query, bookingRequestID, fromUserID, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("contact share repository find: %w", err)
	}
	return &s, nil
}

func (r *repository) CreateOrGet(ctx context.Context, s *Share, notice *conversation.Message) (*Share, bool, error) {
	created := false
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO contact_shares (
				id, booking_request_id, from_user_id, to_user_id, type, value, status, created_at
			) VALUES (
				:id, :booking_request_id, :from_user_id, :to_user_id, :type, :value, :status, :created_at
			)
			ON CONFLICT (booking_request_id, from_user_id, type) DO NOTHING
		`
		res, err := tx.NamedExecContext(ctx, insert, s)
		if err != nil {
			return fmt.Errorf("contact share repository insert: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("contact share repository insert rows: %w", err)
		}
		if n == 0 {
			return nil
		}
		created = true

		if notice != nil {
			return conversation.AppendMessageTx(ctx, tx, notice)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		return s, true, nil
	}

	existing, err := r.Find(ctx, s.BookingRequestID, s.FromUserID, s.Type)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("contact share repository: conflict without row for booking %s", s.BookingRequestID)
	}
	return existing, false, nil
}

func (r *repository) Respond(ctx context.Context, id uuid.UUID, status Status, by uuid.UUID, at time.Time, notice *conversation.Message) (bool, error) {
	updated := false
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE contact_shares
			SET status = $2, responded_by = $3, responded_at = $4
			WHERE id = $1 AND status = 'pending'
		`
		res, err := tx.ExecContext(ctx, query, id, status, by, at)
		if err != nil {
			return fmt.Errorf("contact share repository respond: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("contact share repository respond rows: %w", err)
		}
		if n == 0 {
			return nil
		}
		updated = true

		if notice != nil {
			return conversation.AppendMessageTx(ctx, tx, notice)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

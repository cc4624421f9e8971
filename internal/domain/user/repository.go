package user

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/neighborly/neighborly-api/internal/pkg/database"
)

// Repository defines account data access interface
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// ListStrikeDecayCandidates returns up to limit accounts with strikes whose last
	// strike is older than cutoff, ordered by (last_strike_at, id) after the cursor.
	ListStrikeDecayCandidates(ctx context.Context, cutoff time.Time, after *Cursor, limit int) ([]*User, error)
	// ApplyStrikeDecay writes one page of decay steps in a single transaction and
	// returns how many rows changed. Rows whose strike count moved since they were
	// read are skipped.
	ApplyStrikeDecay(ctx context.Context, steps []StrikeDecay) (int, error)
}

// Cursor is the last-seen sort key of a strike decay page
type Cursor struct {
	LastStrikeAt time.Time
	ID           uuid.UUID
}

// CursorAfter returns the cursor positioned after u
func CursorAfter(u *User) *Cursor {
	return &Cursor{LastStrikeAt: u.LastStrikeAt.Time, ID: u.ID}
}

// Encode returns the cursor as an opaque continuation token
func (c *Cursor) Encode() string {
	raw := c.LastStrikeAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a continuation token produced by Encode
func DecodeCursor(token string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidCursor
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, ErrInvalidCursor
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{LastStrikeAt: ts, ID: id}, nil
}

const userColumns = `id, display_name, email, phone, role, parent_id, is_blocked, block_reason,
       is_chat_restricted, strike_count, last_strike_at, created_at, updated_at`

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new account repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// GetByID returns account by ID
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user repository get: %w", err)
	}
	return &u, nil
}

func (r *repository) ListStrikeDecayCandidates(ctx context.Context, cutoff time.Time, after *Cursor, limit int) ([]*User, error) {
	var (
		users []*User
		err   error
	)

	if after == nil {
		query := `SELECT ` + userColumns + `
			FROM users
			WHERE strike_count > 0 AND last_strike_at < $1
			ORDER BY last_strike_at ASC, id ASC
			LIMIT $2`
		err = r.db.SelectContext(ctx, &users, query, cutoff, limit)
	} else {
		query := `SELECT ` + userColumns + `
			FROM users
			WHERE strike_count > 0 AND last_strike_at < $1
			  AND (last_strike_at, id) > ($2, $3)
			ORDER BY last_strike_at ASC, id ASC
			LIMIT $4`
		err = r.db.SelectContext(ctx, &users, query, cutoff, after.LastStrikeAt, after.ID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("user repository list decay candidates: %w", err)
	}
	return users, nil
}

func (r *repository) ApplyStrikeDecay(ctx context.Context, steps []StrikeDecay) (int, error) {
	if len(steps) == 0 {
		return 0, nil
	}

	query := `
		UPDATE users
		SET strike_count = $2,
		    last_strike_at = CASE WHEN $3 THEN NULL ELSE last_strike_at END,
		    is_blocked = CASE WHEN $4 THEN FALSE ELSE is_blocked END,
		    block_reason = CASE WHEN $4 THEN '' ELSE block_reason END,
		    is_chat_restricted = CASE WHEN $5 THEN FALSE ELSE is_chat_restricted END,
		    updated_at = NOW()
		WHERE id = $1 AND strike_count = $6
	`

	updated := 0
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, s := range steps {
			res, err := tx.ExecContext(ctx, query,
				s.UserID, s.NewCount, s.ClearLastStrikeAt, s.LiftBlock, s.LiftChatRestriction, s.PriorCount)
			if err != nil {
				return fmt.Errorf("decay user %s: %w", s.UserID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			updated += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("user repository apply strike decay: %w", err)
	}
	return updated, nil
}

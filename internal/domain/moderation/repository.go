package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines moderation data access interface
type Repository interface {
	// Block operations
	// CreateBlock inserts the relation; created is false when it already existed
	CreateBlock(ctx context.Context, block *UserBlock) (created bool, err error)
	// DeleteBlock removes the relation; deleted is false when there was none
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (deleted bool, err error)
	// IsBlocked checks both directions
	IsBlocked(ctx context.Context, user1, user2 uuid.UUID) (bool, error)

	// Report operations
	CreateReport(ctx context.Context, report *Report) error
	CountReportsSince(ctx context.Context, reporterID uuid.UUID, since time.Time) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new moderation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Block operations

func (r *repository) CreateBlock(ctx context.Context, block *UserBlock) (bool, error) {
	query := `
		INSERT INTO user_blocks (id, blocker_id, blocked_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, block.ID, block.BlockerID, block.BlockedID, block.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("moderation repository create block: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_blocks WHERE id = $1`, BlockID(blockerID, blockedID))
	if err != nil {
		return false, fmt.Errorf("moderation repository delete block: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) IsBlocked(ctx context.Context, user1, user2 uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_blocks WHERE id IN ($1, $2))`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, BlockID(user1, user2), BlockID(user2, user1))
	if err != nil {
		return false, fmt.Errorf("moderation repository is blocked: %w", err)
	}
	return exists, nil
}

// Report operations

func (r *repository) CreateReport(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (
			id, reporter_id, reason, target_user_id, target_post_id, target_message_id,
			target_conversation_id, reported_user_id, description, context_snapshot,
			is_flagged_reporter, status, created_at
		) VALUES (
			:id, :reporter_id, :reason, :target_user_id, :target_post_id, :target_message_id,
			:target_conversation_id, :reported_user_id, :description, :context_snapshot,
			:is_flagged_reporter, :status, :created_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("moderation repository create report: %w", err)
	}
	return nil
}

func (r *repository) CountReportsSince(ctx context.Context, reporterID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM reports WHERE reporter_id = $1 AND created_at >= $2`, reporterID, since)
	if err != nil {
		return 0, fmt.Errorf("moderation repository count reports: %w", err)
	}
	return count, nil
}

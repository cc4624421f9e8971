package moderation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ReportedUser is the account state captured for a user target
type ReportedUser struct {
	ID          uuid.UUID `db:"id"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	CreatedAt   time.Time `db:"created_at"`
}

// ReportedPost is the post state captured for a post target
type ReportedPost struct {
	ID          uuid.UUID `db:"id"`
	AuthorID    uuid.UUID `db:"author_id"`
	AuthorName  string    `db:"author_name"`
	AuthorRole  string    `db:"author_role"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ServiceType string    `db:"service_type"`
	CreatedAt   time.Time `db:"created_at"`
}

// ReportedMessage is the message state captured for a message target
type ReportedMessage struct {
	ID         uuid.UUID     `db:"id"`
	SenderID   uuid.NullUUID `db:"sender_id"`
	SenderName string        `db:"sender_name"`
	SenderRole string        `db:"sender_role"`
	Text       string        `db:"text"`
	CreatedAt  time.Time     `db:"created_at"`
}

// ContentLookup reads the content a report points at. Every getter returns
// (nil, nil) when the content does not exist.
type ContentLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*ReportedUser, error)
	GetPost(ctx context.Context, id uuid.UUID) (*ReportedPost, error)
	GetConversationParticipants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error)
	GetMessage(ctx context.Context, conversationID, messageID uuid.UUID) (*ReportedMessage, error)
}

type contentLookup struct {
	db *sqlx.DB
}

// NewContentLookup creates the SQL-backed content lookup
func NewContentLookup(db *sqlx.DB) ContentLookup {
	return &contentLookup{db: db}
}

func (c *contentLookup) GetUser(ctx context.Context, id uuid.UUID) (*ReportedUser, error) {
	var u ReportedUser
	err := c.db.GetContext(ctx, &u, `SELECT id, display_name, role, created_at FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("content lookup user: %w", err)
	}
	return &u, nil
}

func (c *contentLookup) GetPost(ctx context.Context, id uuid.UUID) (*ReportedPost, error) {
	query := `
		SELECT id, author_id,
		       author_snapshot->>'displayName' AS author_name,
		       author_snapshot->>'role' AS author_role,
		       title, description, service_type, created_at
		FROM posts WHERE id = $1
	`
	var p ReportedPost
	if err := c.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("content lookup post: %w", err)
	}
	return &p, nil
}

func (c *contentLookup) GetConversationParticipants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	err := c.db.QueryRowxContext(ctx,
		`SELECT participant_ids FROM conversations WHERE id = $1`, conversationID,
	).Scan(pq.Array(&raw))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("content lookup conversation: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("content lookup conversation participant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *contentLookup) GetMessage(ctx context.Context, conversationID, messageID uuid.UUID) (*ReportedMessage, error) {
	query := `
		SELECT id, sender_id,
		       COALESCE(sender_snapshot->>'displayName', '') AS sender_name,
		       COALESCE(sender_snapshot->>'role', '') AS sender_role,
		       text, created_at
		FROM messages WHERE id = $1 AND conversation_id = $2
	`
	var m ReportedMessage
	if err := c.db.GetContext(ctx, &m, query, messageID, conversationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("content lookup message: %w", err)
	}
	return &m, nil
}

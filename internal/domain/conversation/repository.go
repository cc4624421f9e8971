package conversation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/neighborly/neighborly-api/internal/pkg/database"
)

// Repository defines conversation data access interface
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	GetByBookingRequest(ctx context.Context, bookingRequestID uuid.UUID) (*Conversation, error)
	// CreateOrGet inserts c unless a conversation already exists for its booking
	// request; the stored conversation is returned either way.
	CreateOrGet(ctx context.Context, c *Conversation) (stored *Conversation, created bool, err error)
	// AppendMessage stores m and updates the conversation counters atomically
	AppendMessage(ctx context.Context, m *Message) error
}

const conversationSelectColumns = `
	id, booking_request_id, participant_ids, message_count,
	last_message_preview, last_message_at, created_at, updated_at
`

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new conversation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	return r.getOne(ctx, `SELECT `+conversationSelectColumns+` FROM conversations WHERE id = $1`, id)
}

func (r *repository) GetByBookingRequest(ctx context.Context, bookingRequestID uuid.UUID) (*Conversation, error) {
	return r.getOne(ctx, `SELECT `+conversationSelectColumns+` FROM conversations WHERE booking_request_id = $1`, bookingRequestID)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*Conversation, error) {
	var c Conversation
	if err := r.db.GetContext(ctx, &c, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("conversation repository get: %w", err)
	}
	return &c, nil
}

func (r *repository) CreateOrGet(ctx context.Context, c *Conversation) (*Conversation, bool, error) {
	insert := `
		INSERT INTO conversations (id, booking_request_id, participant_ids, created_at, updated_at)
		VALUES (:id, :booking_request_id, :participant_ids, :created_at, :updated_at)
		ON CONFLICT (booking_request_id) DO NOTHING
	`
	res, err := r.db.NamedExecContext(ctx, insert, c)
	if err != nil {
		return nil, false, fmt.Errorf("conversation repository create: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("conversation repository create rows: %w", err)
	}
	if n == 1 {
		return c, true, nil
	}

	existing, err := r.GetByBookingRequest(ctx, c.BookingRequestID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("conversation repository create: conflict without row for booking %s", c.BookingRequestID)
	}
	return existing, false, nil
}

func (r *repository) AppendMessage(ctx context.Context, m *Message) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return AppendMessageTx(ctx, tx, m)
	})
}

// AppendMessageTx stores m and bumps the conversation message count, preview
// and last message time inside tx. Other packages use it to post system
// messages in their own transactions.
func AppendMessageTx(ctx context.Context, tx *sqlx.Tx, m *Message) error {
	insert := `
		INSERT INTO messages (id, conversation_id, sender_id, sender_snapshot, kind, text, created_at)
		VALUES (:id, :conversation_id, :sender_id, :sender_snapshot, :kind, :text, :created_at)
	`
	if _, err := tx.NamedExecContext(ctx, insert, m); err != nil {
		return fmt.Errorf("append message insert: %w", err)
	}

	update := `
		UPDATE conversations
		SET message_count = message_count + 1,
		    last_message_preview = $2,
		    last_message_at = $3,
		    updated_at = $3
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, update, m.ConversationID, Preview(m.Text), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message update conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("append message: conversation %s not found", m.ConversationID)
	}
	return nil
}

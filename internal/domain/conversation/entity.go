package conversation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/neighborly/neighborly-api/internal/domain/user"
)

// MessageKind separates participant messages from system notices
type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindSystem MessageKind = "system"
)

// Text limits in characters
const (
	MessageMaxLen = 1000
	PreviewMaxLen = 100
)

// Conversation is the chat derived from an accepted booking request
// (matches conversations table)
type Conversation struct {
	ID                 uuid.UUID      `db:"id"`
	BookingRequestID   uuid.UUID      `db:"booking_request_id"`
	ParticipantIDs     pq.StringArray `db:"participant_ids"`
	MessageCount       int            `db:"message_count"`
	LastMessagePreview string         `db:"last_message_preview"`
	LastMessageAt      sql.NullTime   `db:"last_message_at"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// HasParticipant reports whether userID belongs to the conversation
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	id := userID.String()
	for _, p := range c.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

// Others returns the participants other than userID
func (c *Conversation) Others(userID uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(c.ParticipantIDs))
	for _, p := range c.ParticipantIDs {
		id, err := uuid.Parse(p)
		if err != nil || id == userID {
			continue
		}
		out = append(out, id)
	}
	return out
}

func participantArray(ids ...uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Message is immutable once stored (matches messages table). System messages
// have no sender.
type Message struct {
	ID             uuid.UUID      `db:"id"`
	ConversationID uuid.UUID      `db:"conversation_id"`
	SenderID       uuid.NullUUID  `db:"sender_id"`
	SenderSnapshot *user.Snapshot `db:"sender_snapshot"`
	Kind           MessageKind    `db:"kind"`
	Text           string         `db:"text"`
	CreatedAt      time.Time      `db:"created_at"`
}

// NewSystemMessage builds a sender-less notice for conversationID
func NewSystemMessage(conversationID uuid.UUID, text string, at time.Time) *Message {
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Kind:           KindSystem,
		Text:           text,
		CreatedAt:      at,
	}
}

// Preview returns the first PreviewMaxLen characters of text
func Preview(text string) string {
	r := []rune(text)
	if len(r) <= PreviewMaxLen {
		return text
	}
	return string(r[:PreviewMaxLen])
}

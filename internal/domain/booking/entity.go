package booking

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents booking request status
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCancelled || s == StatusCompleted
}

// Action is what a participant asks to do with a request
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Actor identifies which side of the booking is acting
type Actor string

const (
	ActorRequester Actor = "requester"
	ActorProvider  Actor = "provider"
)

// MessageMaxLen is the booking message limit in characters
const MessageMaxLen = 500

// transition is one edge of the booking state machine
type transition struct {
	from  []Status
	to    Status
	actor Actor
}

var transitions = map[Action]transition{
	ActionAccept:   {from: []Status{StatusPending}, to: StatusAccepted, actor: ActorProvider},
	ActionDecline:  {from: []Status{StatusPending}, to: StatusDeclined, actor: ActorProvider},
	ActionCancel:   {from: []Status{StatusPending, StatusAccepted}, to: StatusCancelled, actor: ActorRequester},
	ActionComplete: {from: []Status{StatusAccepted}, to: StatusCompleted, actor: ActorRequester},
}

// NextStatus resolves an action taken by actor on a request in status from.
// A wrong actor fails ErrWrongActor; a wrong state fails ErrInvalidTransition.
func NextStatus(from Status, action Action, actor Actor) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrInvalidAction
	}
	if t.actor != actor {
		return "", ErrWrongActor
	}
	for _, s := range t.from {
		if s == from {
			return t.to, nil
		}
	}
	return "", ErrInvalidTransition
}

// PostSnapshot freezes the listing a request was made against
type PostSnapshot struct {
	Title       string `json:"title"`
	ServiceType string `json:"serviceType"`
	PriceType   string `json:"priceType"`
	AuthorName  string `json:"authorName"`
}

// Value implements driver.Valuer for the JSONB column
func (s PostSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the JSONB column
func (s *PostSnapshot) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("post snapshot: unsupported source type")
	}
}

// Request represents a booking request (matches booking_requests table)
type Request struct {
	ID           uuid.UUID    `db:"id"`
	PostID       uuid.UUID    `db:"post_id"`
	RequesterID  uuid.UUID    `db:"requester_id"`
	ProviderID   uuid.UUID    `db:"provider_id"`
	Status       Status       `db:"status"`
	Message      string       `db:"message"`
	PostSnapshot PostSnapshot `db:"post_snapshot"`
	CreatedAt    time.Time    `db:"created_at"`
	RespondedAt  sql.NullTime `db:"responded_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// ActorFor returns the side userID plays in the request
func (r *Request) ActorFor(userID uuid.UUID) (Actor, bool) {
	switch userID {
	case r.RequesterID:
		return ActorRequester, true
	case r.ProviderID:
		return ActorProvider, true
	}
	return "", false
}

// IsParticipant reports whether userID is requester or provider
func (r *Request) IsParticipant(userID uuid.UUID) bool {
	_, ok := r.ActorFor(userID)
	return ok
}

// Participants returns requester and provider ids
func (r *Request) Participants() []uuid.UUID {
	return []uuid.UUID{r.RequesterID, r.ProviderID}
}

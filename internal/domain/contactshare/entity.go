package contactshare

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type is the kind of contact detail disclosed
type Type string

const (
	TypePhone Type = "phone"
	TypeEmail Type = "email"
)

// Status represents contact share status
type Status string

const (
	StatusShared   Status = "shared"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

// Share is one audited disclosure, unique per (booking request, sharer, type)
// (matches contact_shares table)
type Share struct {
	ID               uuid.UUID     `db:"id"`
	BookingRequestID uuid.UUID     `db:"booking_request_id"`
	FromUserID       uuid.UUID     `db:"from_user_id"`
	ToUserID         uuid.UUID     `db:"to_user_id"`
	Type             Type          `db:"type"`
	Value            string        `db:"value"`
	Status           Status        `db:"status"`
	RespondedBy      uuid.NullUUID `db:"responded_by"`
	RespondedAt      sql.NullTime  `db:"responded_at"`
	CreatedAt        time.Time     `db:"created_at"`
}

func label(t Type) string {
	if t == TypeEmail {
		return "email address"
	}
	return "phone number"
}

func sharedNotice(name string, t Type) string {
	return name + " shared their " + label(t)
}

func approvedNotice(name string, t Type) string {
	return name + " approved the " + label(t) + " share"
}

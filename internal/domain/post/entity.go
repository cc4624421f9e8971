package post

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/user"
)

// Type distinguishes what a post asks for
type Type string

const (
	TypeOffer   Type = "offer"
	TypeRequest Type = "request"
)

// PriceType represents how a service is priced
type PriceType string

const (
	PriceFree       PriceType = "free"
	PriceFixed      PriceType = "fixed"
	PriceHourly     PriceType = "hourly"
	PriceNegotiable PriceType = "negotiable"
)

// Text limits in characters
const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 1000
	CommentMaxLen     = 500
)

// Post represents a service listing (matches posts table)
type Post struct {
	ID                uuid.UUID     `db:"id"`
	AuthorID          uuid.UUID     `db:"author_id"`
	AuthorSnapshot    user.Snapshot `db:"author_snapshot"`
	Type              Type          `db:"type"`
	Title             string        `db:"title"`
	Description       string        `db:"description"`
	ServiceType       string        `db:"service_type"`
	PriceType         PriceType     `db:"price_type"`
	PriceMin          sql.NullInt64 `db:"price_min"`
	PriceMax          sql.NullInt64 `db:"price_max"`
	DeliveryMode      string        `db:"delivery_mode"`
	MeetingPreference string        `db:"meeting_preference"`
	Zipcode           string        `db:"zipcode"`
	IsActive          bool          `db:"is_active"`
	CommentCount      int           `db:"comment_count"`
	BookingCount      int           `db:"booking_count"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
}

// IsOffer reports whether the post is a teen's service offer
func (p *Post) IsOffer() bool { return p.Type == TypeOffer }

// Comment is a reply under a post (matches post_comments table)
type Comment struct {
	ID             uuid.UUID     `db:"id"`
	PostID         uuid.UUID     `db:"post_id"`
	AuthorID       uuid.UUID     `db:"author_id"`
	AuthorSnapshot user.Snapshot `db:"author_snapshot"`
	Text           string        `db:"text"`
	CreatedAt      time.Time     `db:"created_at"`
}

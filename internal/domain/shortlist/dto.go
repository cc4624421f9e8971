package shortlist

import "github.com/google/uuid"

// CreateRequest is the createShortlist payload
type CreateRequest struct {
	PostID uuid.UUID `json:"postId" validate:"required"`
	Note   string    `json:"note,omitempty" validate:"max=1200"`
}

// CreateResult is returned by createShortlist
type CreateResult struct {
	OK                 bool      `json:"ok"`
	ShortlistID        uuid.UUID `json:"shortlistId"`
	AlreadyShortlisted bool      `json:"alreadyShortlisted"`
}

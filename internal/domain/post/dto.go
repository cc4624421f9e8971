package post

import "github.com/google/uuid"

// CreatePostRequest is the createPost payload
type CreatePostRequest struct {
	Type              Type      `json:"type" validate:"required,post_type"`
	Title             string    `json:"title" validate:"required,max=400"`
	Description       string    `json:"description" validate:"max=4000"`
	ServiceType       string    `json:"serviceType" validate:"required,service_type"`
	PriceType         PriceType `json:"priceType" validate:"required,price_type"`
	PriceMin          *int      `json:"priceMin,omitempty"`
	PriceMax          *int      `json:"priceMax,omitempty"`
	DeliveryMode      string    `json:"deliveryMode" validate:"required,delivery_mode"`
	MeetingPreference string    `json:"meetingPreference" validate:"required,meeting_preference"`
	Zipcode           string    `json:"zipcode" validate:"required,zipcode"`
}

// CreatePostResult is returned by createPost
type CreatePostResult struct {
	OK     bool      `json:"ok"`
	PostID uuid.UUID `json:"postId"`
}

// CreateCommentRequest is the createComment payload
type CreateCommentRequest struct {
	PostID uuid.UUID `json:"postId" validate:"required"`
	Text   string    `json:"text" validate:"required,max=2000"`
}

// CreateCommentResult is returned by createComment
type CreateCommentResult struct {
	OK        bool      `json:"ok"`
	CommentID uuid.UUID `json:"commentId"`
}

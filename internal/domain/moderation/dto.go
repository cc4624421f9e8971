package moderation

import "github.com/google/uuid"

// ReportContentRequest files a report against exactly one target
type ReportContentRequest struct {
	Reason         ReportReason `json:"reason" validate:"required,report_reason"`
	UserID         *uuid.UUID   `json:"userId,omitempty"`
	PostID         *uuid.UUID   `json:"postId,omitempty"`
	MessageID      *uuid.UUID   `json:"messageId,omitempty"`
	ConversationID *uuid.UUID   `json:"conversationId,omitempty"`
	Description    string       `json:"description,omitempty" validate:"max=4000"`
}

// ReportContentResult is returned by reportContent
type ReportContentResult struct {
	OK       bool      `json:"ok"`
	ReportID uuid.UUID `json:"reportId"`
}

// BlockUserRequest identifies the other account of a block relation
type BlockUserRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}

// BlockUserResult is returned by blockUser
type BlockUserResult struct {
	OK             bool   `json:"ok"`
	BlockID        string `json:"blockId"`
	AlreadyBlocked bool   `json:"alreadyBlocked"`
}

// UnblockUserResult is returned by unblockUser
type UnblockUserResult struct {
	OK         bool `json:"ok"`
	WasBlocked bool `json:"wasBlocked"`
}

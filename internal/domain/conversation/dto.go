package conversation

import "github.com/google/uuid"

// CreateFromRequestRequest is the createConversationFromAcceptedRequest payload
type CreateFromRequestRequest struct {
	BookingRequestID uuid.UUID `json:"bookingRequestId" validate:"required"`
}

// CreateFromRequestResult is returned by createConversationFromAcceptedRequest
type CreateFromRequestResult struct {
	OK             bool      `json:"ok"`
	ConversationID uuid.UUID `json:"conversationId"`
	AlreadyExisted bool      `json:"alreadyExisted"`
}

// SendMessageRequest is the sendMessage payload
type SendMessageRequest struct {
	ConversationID uuid.UUID `json:"conversationId" validate:"required"`
	Text           string    `json:"text" validate:"required,max=4000"`
}

// SendMessageResult is returned by sendMessage
type SendMessageResult struct {
	OK        bool      `json:"ok"`
	MessageID uuid.UUID `json:"messageId"`
}

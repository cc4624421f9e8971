package booking

import "github.com/google/uuid"

// CreateRequest is the createBookingRequest payload
type CreateRequest struct {
	PostID  uuid.UUID `json:"postId" validate:"required"`
	Message string    `json:"message,omitempty" validate:"max=2000"`
}

// CreateResult is returned by createBookingRequest
type CreateResult struct {
	OK               bool      `json:"ok"`
	BookingRequestID uuid.UUID `json:"bookingRequestId"`
}

// RespondRequest is the respondToBookingRequest payload
type RespondRequest struct {
	BookingRequestID uuid.UUID `json:"bookingRequestId" validate:"required"`
	Action           Action    `json:"action" validate:"required,booking_action"`
}

// RespondResult is returned by respondToBookingRequest
type RespondResult struct {
	OK     bool   `json:"ok"`
	Status Status `json:"status"`
}

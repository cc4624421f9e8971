package contactshare

import "github.com/google/uuid"

// RequestShareRequest is the requestContactShare payload
type RequestShareRequest struct {
	BookingRequestID uuid.UUID `json:"bookingRequestId" validate:"required"`
	Type             Type      `json:"type" validate:"required,contact_type"`
}

// RequestShareResult is returned by requestContactShare
type RequestShareResult struct {
	OK             bool      `json:"ok"`
	ContactShareID uuid.UUID `json:"contactShareId"`
	AlreadyShared  bool      `json:"alreadyShared"`
}

// ApproveShareRequest is the approveContactShare payload
type ApproveShareRequest struct {
	ContactShareID uuid.UUID `json:"contactShareId" validate:"required"`
	Approve        *bool     `json:"approve" validate:"required"`
}

// ApproveShareResult is returned by approveContactShare
type ApproveShareResult struct {
	OK     bool   `json:"ok"`
	Status Status `json:"status"`
}

package conversation

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	ErrConversationNotFound = apperr.NotFound("Conversation not found")
	ErrNotParticipant       = apperr.PermissionDenied("You are not part of this conversation")
	ErrBookingNotAccepted   = apperr.FailedPrecondition("Chat opens once the booking request is accepted")
	ErrChatRestricted       = apperr.PermissionDenied("Your chat access is temporarily restricted")
	ErrBlockedRelation      = apperr.PermissionDenied("You cannot interact with this user")
	ErrMessageEmpty         = apperr.InvalidArgument("Message text is required")
)

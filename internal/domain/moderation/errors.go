package moderation

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	// Block errors
	ErrCannotBlockSelf = apperr.InvalidArgument("You cannot block yourself")

	// Report errors
	ErrCannotReportSelf           = apperr.InvalidArgument("You cannot report yourself")
	ErrInvalidReportReason        = apperr.InvalidArgument("Invalid report reason")
	ErrReportTargetRequired       = apperr.InvalidArgument("Exactly one report target is required")
	ErrConversationRequired       = apperr.InvalidArgument("Reporting a message requires its conversation")
	ErrNotConversationParticipant = apperr.PermissionDenied("You are not part of this conversation")
)

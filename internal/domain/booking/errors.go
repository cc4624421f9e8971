package booking

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	ErrRequestNotFound   = apperr.NotFound("Booking request not found")
	ErrInvalidAction     = apperr.InvalidArgument("Unknown booking action")
	ErrWrongActor        = apperr.PermissionDenied("You cannot perform this action on this booking")
	ErrInvalidTransition = apperr.FailedPrecondition("This booking can no longer be changed this way")
	ErrConcurrentUpdate  = apperr.FailedPrecondition("Booking request was modified concurrently")
	ErrNotParticipant    = apperr.PermissionDenied("You are not part of this booking")
	ErrPostNotBookable   = apperr.FailedPrecondition("Only service offers can be booked")
	ErrProviderNotTeen   = apperr.FailedPrecondition("This offer can no longer be booked")
	ErrProviderBlocked   = apperr.FailedPrecondition("This provider is not available")
	ErrCannotBookSelf    = apperr.InvalidArgument("You cannot book your own post")
	ErrDuplicatePending  = apperr.FailedPrecondition("You already have a pending request for this post")
	ErrBlockedRelation   = apperr.PermissionDenied("You cannot interact with this user")
)

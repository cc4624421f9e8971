package user

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	ErrUnauthenticated = apperr.Unauthenticated("Sign in required")
	ErrAccountMissing  = apperr.FailedPrecondition("Finish setting up your account first")
	ErrUserNotFound    = apperr.NotFound("Account not found")
	ErrAccountBlocked  = apperr.PermissionDenied("Your account is blocked")
	ErrRoleNotAllowed  = apperr.PermissionDenied("Your account type cannot perform this action")
	ErrInvalidCursor   = apperr.InvalidArgument("Invalid continuation token")
)

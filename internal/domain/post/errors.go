package post

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	ErrPostNotFound          = apperr.NotFound("Post not found")
	ErrPostInactive          = apperr.FailedPrecondition("This post is no longer active")
	ErrOfferRequiresTeen     = apperr.PermissionDenied("Only teens can post service offers")
	ErrRequestRequiresParent = apperr.PermissionDenied("Only parents can post service requests")
	ErrZipcodeNotAllowed     = apperr.FailedPrecondition("Neighborly is not available in this zipcode yet")
	ErrPriceRequired         = apperr.InvalidArgument("Price range is required unless the service is free")
	ErrInvalidPriceRange     = apperr.InvalidArgument("Price range must satisfy 0 <= min <= max")
	ErrTitleRequired         = apperr.InvalidArgument("Title is required")
	ErrCommentEmpty          = apperr.InvalidArgument("Comment text is required")
	ErrBlockedRelation       = apperr.PermissionDenied("You cannot interact with this user")
)

package shortlist

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	ErrNoLinkedParent  = apperr.FailedPrecondition("Link a parent account before shortlisting")
	ErrBlockedRelation = apperr.PermissionDenied("You cannot interact with this user")
)

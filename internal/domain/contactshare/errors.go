package contactshare

import "github.com/neighborly/neighborly-api/internal/pkg/apperr"

var (
	ErrShareNotFound       = apperr.NotFound("Contact share not found")
	ErrOnlyRequester       = apperr.PermissionDenied("Only the requesting parent can share contact details")
	ErrBookingNotShareable = apperr.FailedPrecondition("Contact details can be shared once the booking is accepted")
	ErrNoContactValue      = apperr.FailedPrecondition("Add this contact detail to your account first")
	ErrNotApprover         = apperr.PermissionDenied("Only the provider or their parent can respond to this share")
	ErrShareNotPending     = apperr.FailedPrecondition("This contact share was already answered")
)

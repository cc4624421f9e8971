package errorhandler

import (
	"context"
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
	"github.com/neighborly/neighborly-api/internal/pkg/metrics"
	"github.com/neighborly/neighborly-api/internal/pkg/response"
)

// HandleError logs a failed callable and writes the error envelope.
// Client errors are logged at warn, internal errors at error with the cause.
func HandleError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := apperr.CodeOf(err)
	metrics.CallsTotal.WithLabelValues(operation, string(code)).Inc()

	l := logger.FromContext(ctx)
	if code == apperr.CodeInternal {
		l.Error().
			Err(err).
			Str("operation", operation).
			Str("error_code", string(code)).
			Msg("Callable failed")
	} else {
		l.Warn().
			Str("operation", operation).
			Str("error_code", string(code)).
			Str("error_message", err.Error()).
			Msg("Callable rejected")
	}

	response.Error(w, err)
}

// HandleValidation logs field errors and writes an invalid-argument envelope
func HandleValidation(ctx context.Context, w http.ResponseWriter, operation string, fieldErrors map[string]string) {
	metrics.CallsTotal.WithLabelValues(operation, string(apperr.CodeInvalidArgument)).Inc()
	logger.FromContext(ctx).Warn().
		Str("operation", operation).
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")

	response.ValidationError(w, fieldErrors)
}

// OK records a successful callable and writes its result
func OK(w http.ResponseWriter, operation string, result interface{}) {
	metrics.CallsTotal.WithLabelValues(operation, "ok").Inc()
	response.OK(w, result)
}

package booking

import (
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/errorhandler"
	"github.com/neighborly/neighborly-api/internal/pkg/response"
	"github.com/neighborly/neighborly-api/internal/pkg/validator"
)

// Handler handles booking callables
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateBookingRequest handles POST /callable/createBookingRequest
func (h *Handler) CreateBookingRequest(w http.ResponseWriter, r *http.Request) {
	const op = "createBookingRequest"
	ctx := r.Context()

	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.CreateBookingRequest(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

// RespondToBookingRequest handles POST /callable/respondToBookingRequest
func (h *Handler) RespondToBookingRequest(w http.ResponseWriter, r *http.Request) {
	const op = "respondToBookingRequest"
	ctx := r.Context()

	var req RespondRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.RespondToBookingRequest(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

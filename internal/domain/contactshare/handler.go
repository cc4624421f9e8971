package contactshare

import (
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/errorhandler"
	"github.com/neighborly/neighborly-api/internal/pkg/response"
	"github.com/neighborly/neighborly-api/internal/pkg/validator"
)

// Handler handles contact share callables
type Handler struct {
	service *Service
}

// NewHandler creates contact share handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RequestContactShare handles POST /callable/requestContactShare
func (h *Handler) RequestContactShare(w http.ResponseWriter, r *http.Request) {
	const op = "requestContactShare"
	ctx := r.Context()

	var req RequestShareRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.RequestContactShare(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

// ApproveContactShare handles POST /callable/approveContactShare
func (h *Handler) ApproveContactShare(w http.ResponseWriter, r *http.Request) {
	const op = "approveContactShare"
	ctx := r.Context()

	var req ApproveShareRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.ApproveContactShare(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

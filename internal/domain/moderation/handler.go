package moderation

import (
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/errorhandler"
	"github.com/neighborly/neighborly-api/internal/pkg/response"
	"github.com/neighborly/neighborly-api/internal/pkg/validator"
)

// Handler handles moderation callables
type Handler struct {
	service *Service
}

// NewHandler creates moderation handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// ReportContent handles POST /callable/reportContent
func (h *Handler) ReportContent(w http.ResponseWriter, r *http.Request) {
	const op = "reportContent"
	ctx := r.Context()

	var req ReportContentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.ReportContent(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

// BlockUser handles POST /callable/blockUser
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	const op = "blockUser"
	ctx := r.Context()

	var req BlockUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.BlockUser(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

// UnblockUser handles POST /callable/unblockUser
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	const op = "unblockUser"
	ctx := r.Context()

	var req BlockUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.UnblockUser(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

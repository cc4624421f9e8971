package shortlist

import (
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/errorhandler"
	"github.com/neighborly/neighborly-api/internal/pkg/response"
	"github.com/neighborly/neighborly-api/internal/pkg/validator"
)

// Handler handles shortlist callables
type Handler struct {
	service *Service
}

// NewHandler creates shortlist handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateShortlist handles POST /callable/createShortlist
func (h *Handler) CreateShortlist(w http.ResponseWriter, r *http.Request) {
	const op = "createShortlist"
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

	result, err := h.service.CreateShortlist(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

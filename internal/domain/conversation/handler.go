package conversation

import (
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/errorhandler"
	"github.com/neighborly/neighborly-api/internal/pkg/response"
	"github.com/neighborly/neighborly-api/internal/pkg/validator"
)

// Handler handles conversation callables
type Handler struct {
	service *Service
}

// NewHandler creates conversation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateFromAcceptedRequest handles POST /callable/createConversationFromAcceptedRequest
func (h *Handler) CreateFromAcceptedRequest(w http.ResponseWriter, r *http.Request) {
	const op = "createConversationFromAcceptedRequest"
	ctx := r.Context()

	var req CreateFromRequestRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.CreateFromAcceptedRequest(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

// SendMessage handles POST /callable/sendMessage
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	const op = "sendMessage"
	ctx := r.Context()

	var req SendMessageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.SendMessage(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

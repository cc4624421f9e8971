package post

import (
	"net/http"

	"github.com/neighborly/neighborly-api/internal/pkg/errorhandler"
	"github.com/neighborly/neighborly-api/internal/pkg/response"
	"github.com/neighborly/neighborly-api/internal/pkg/validator"
)

// Handler handles post callables
type Handler struct {
	service *Service
}

// NewHandler creates post handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreatePost handles POST /callable/createPost
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	const op = "createPost"
	ctx := r.Context()

	var req CreatePostRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.CreatePost(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

// CreateComment handles POST /callable/createComment
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	const op = "createComment"
	ctx := r.Context()

	var req CreateCommentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		errorhandler.HandleValidation(ctx, w, op, errors)
		return
	}

	result, err := h.service.CreateComment(ctx, &req)
	if err != nil {
		errorhandler.HandleError(ctx, w, op, err)
		return
	}
	errorhandler.OK(w, op, result)
}

package post

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts post callables on an authenticated router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/createPost", h.CreatePost)
	r.Post("/createComment", h.CreateComment)
}

package shortlist

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts shortlist callables on an authenticated router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/createShortlist", h.CreateShortlist)
}

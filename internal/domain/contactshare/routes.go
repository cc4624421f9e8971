package contactshare

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts contact share callables on an authenticated router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/requestContactShare", h.RequestContactShare)
	r.Post("/approveContactShare", h.ApproveContactShare)
}

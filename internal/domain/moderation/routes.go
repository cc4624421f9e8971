package moderation

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts moderation callables on an authenticated router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/reportContent", h.ReportContent)
	r.Post("/blockUser", h.BlockUser)
	r.Post("/unblockUser", h.UnblockUser)
}

package booking

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts booking callables on an authenticated router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/createBookingRequest", h.CreateBookingRequest)
	r.Post("/respondToBookingRequest", h.RespondToBookingRequest)
}

package conversation

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts conversation callables on an authenticated router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/createConversationFromAcceptedRequest", h.CreateFromAcceptedRequest)
	r.Post("/sendMessage", h.SendMessage)
}

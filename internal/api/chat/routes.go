package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.Chat)

	r.Get("/pdf/{pdf_id}/history", h.History)
	r.Delete("/pdf/{pdf_id}/history", h.ClearHistory)
}

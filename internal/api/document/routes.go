package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/upload", h.Upload)

	r.Get("/pdf", h.List)
	r.Get("/pdf/{pdf_id}", h.Get)
	r.Delete("/pdf/{pdf_id}", h.Delete)
	r.Get("/pdf/{pdf_id}/raw", h.Raw)
	r.Get("/pdf/{pdf_id}/page/{page_num}", h.Page)
	r.Get("/pdf/{pdf_id}/search", h.Search)
}

package github

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers github browsing routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/github/session", func(r chi.Router) {
		r.Post("/", h.Connect)
		r.Get("/{id}", h.GetSession)
		r.Get("/{id}/repositories", h.ListRepositories)
		r.Post("/{id}/selection/{repo_id}", h.ToggleSelect)
		r.Post("/{id}/extract", h.Extract)
	})
}

package pipeline

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers pipeline routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/pipeline", func(r chi.Router) {
		r.Post("/", h.CreateRun)
		r.Get("/{id}", h.GetRun)
		r.Post("/{id}/query", h.SubmitQuery)
		r.Put("/{id}/variables/{name}", h.EditVariable)
		r.Post("/{id}/generate", h.ConfirmGenerate)
		r.Post("/{id}/seed", h.SeedQuery)
		r.Get("/{id}/artifact", h.GetArtifact)
		r.Get("/{id}/artifact/sidecar", h.GetSidecar)
		r.Get("/{id}/report", h.GetReport)
	})
}

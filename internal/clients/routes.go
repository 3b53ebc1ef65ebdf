package clients

import "github.com/go-chi/chi/v5"

// MountRoutes registers /clients routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Put("/", h.update)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)
		r.Get("/history", h.history)
	})
}

// MountStatisticsRoutes registers /statistics routes.
func (h *Handler) MountStatisticsRoutes(r chi.Router) {
	r.Get("/monthly", h.monthlyStats)
}

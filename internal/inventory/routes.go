package inventory

import "github.com/go-chi/chi/v5"

// MountRoutes registers /products routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/categories", h.categories)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Put("/", h.update)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)
		r.Post("/stock", h.addStock)
		r.Post("/sale", h.recordSale)
		r.Get("/stock-entries", h.stockEntries)
		r.Get("/sales", h.sales)
	})
}

package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Handler exposes the dashboard widgets.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, respond: respond}
}

// MountRoutes registers /dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/statistic", h.statistic)
	r.Get("/lass-products", h.lessProducts)
	r.Get("/less-products", h.lessProducts)
	r.Get("/recent-payments", h.recentPayments)
	r.Get("/recent-expenses", h.recentExpenses)
}

func (h *Handler) statistic(w http.ResponseWriter, r *http.Request) {
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	stat, err := h.service.Statistic(r.Context(), month)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, stat)
}

func (h *Handler) lessProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LessProducts(r.Context())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, items)
}

func (h *Handler) recentPayments(w http.ResponseWriter, r *http.Request) {
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	items, err := h.service.RecentPayments(r.Context(), month, limit)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, items)
}

func (h *Handler) recentExpenses(w http.ResponseWriter, r *http.Request) {
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	items, err := h.service.RecentExpenses(r.Context(), month, limit)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, items)
}

// maxRecent bounds the recent widgets.
const maxRecent = 50

// limitParam reads ?limit; zero means the widget default.
func limitParam(r *http.Request) (int, error) {
	v, err := httpx.QueryInt64(r, "limit")
	if err != nil || v == nil {
		return 0, err
	}
	return int(min(*v, maxRecent)), nil
}

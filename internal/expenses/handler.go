package expenses

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Handler exposes expense endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, respond: respond}
}

// MountRoutes registers /expenses routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/categories", h.categories)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Put("/", h.update)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, err := shared.ParseMonth(q.Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	page, err := h.service.List(r.Context(), ListFilter{
		Month: month,
		Page:  shared.ParsePageRequest(q.Get("page"), q.Get("per_page"), DefaultPerPage),
	})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, page)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, CategoryOptions())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	e, err := h.service.Create(r.Context(), CreateInput{
		Category:    req.Category,
		Amount:      *req.Amount,
		Description: req.Description,
		Date:        req.Date.Time,
	})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.Created(w, e)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, e)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	var req updateExpenseRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	input := UpdateInput{Category: req.Category, Amount: req.Amount, Description: req.Description}
	if req.Date != nil {
		d := req.Date.Time
		input.Date = &d
	}
	e, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, nil)
}

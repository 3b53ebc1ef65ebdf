package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Handler exposes one ledger over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, respond: respond}
}

// MountRoutes registers /debts or /payments routes. The legacy "type"
// query parameter on listings is accepted and ignored.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clientID, err := httpx.QueryInt64(r, "client_id")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	month, err := shared.ParseMonth(q.Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	page, err := h.service.List(r.Context(), ListFilter{
		ClientID: clientID,
		Month:    month,
		Page:     shared.ParsePageRequest(q.Get("page"), q.Get("per_page"), DefaultPerPage),
	})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, page)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	entry, err := h.service.Create(r.Context(), CreateInput{
		ClientID:    req.ClientID,
		Amount:      *req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.Created(w, entry)
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

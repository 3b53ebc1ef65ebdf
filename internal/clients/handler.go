package clients

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Handler exposes client endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, respond: respond}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := shared.ParsePageRequest(q.Get("page"), q.Get("per_page"), DefaultPerPage)
	if !wantsStats(q.Get("with_stats")) {
		result, err := h.service.List(r.Context(), page)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		httpx.OK(w, result)
		return
	}
	month, err := shared.ParseMonth(q.Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	result, err := h.service.ListWithStats(r.Context(), ListFilter{Month: month, Page: page})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, result)
}

func wantsStats(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no":
		return false
	default:
		return true
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	req.normalise()
	if err := httpx.ValidateStruct(&req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	client, err := h.service.Create(r.Context(), CreateInput{Name: req.Name, Telephone: req.Telephone, Telegram: req.Telegram})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.Created(w, client)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, client)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	var req updateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	req.normalise()
	if err := httpx.ValidateStruct(&req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	client, err := h.service.Update(r.Context(), id, UpdateInput{Name: req.Name, Telephone: req.Telephone, Telegram: req.Telegram})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, client)
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

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	history, err := h.service.History(r.Context(), id, month)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, history)
}

func (h *Handler) monthlyStats(w http.ResponseWriter, r *http.Request) {
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	stats, err := h.service.MonthlyStats(r.Context(), month)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, stats)
}

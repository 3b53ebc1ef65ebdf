package inventory

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Handler wires HTTP endpoints for inventory module.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, respond: respond}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter ListFilter
	if raw := strings.TrimSpace(q.Get("category")); raw != "" {
		c, err := ParseCategory(raw)
		if err != nil {
			h.respond.Error(w, r, err)
			return
		}
		filter.Category = &c
	}
	paginate := q.Get("per_page") != "" || q.Get("page") != ""
	if paginate {
		page := shared.ParsePageRequest(q.Get("page"), q.Get("per_page"), DefaultPerPage)
		filter.Page = &page
	}
	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if !paginate {
		httpx.OK(w, products)
		return
	}
	httpx.OK(w, shared.NewPage(products, *filter.Page, total))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, CategoryOptions())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	product, err := h.service.Create(r.Context(), CreateInput{
		Name:          req.Name,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		MinQuantity:   req.MinQuantity,
	})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.Created(w, product)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	var req updateProductRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	product, err := h.service.Update(r.Context(), id, UpdateInput{
		Name:          req.Name,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		MinQuantity:   req.MinQuantity,
	})
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, product)
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

func (h *Handler) decodeMovement(r *http.Request) (MovementInput, error) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		return MovementInput{}, err
	}
	var req movementRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		return MovementInput{}, err
	}
	return MovementInput{ProductID: id, Quantity: req.Quantity, UnitPrice: *req.UnitPrice, Description: req.Description}, nil
}

func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeMovement(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	result, err := h.service.AddStock(r.Context(), input)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.Created(w, result)
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeMovement(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	result, err := h.service.RecordSale(r.Context(), input)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.Created(w, result)
}

func (h *Handler) stockEntries(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	entries, err := h.service.StockEntries(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, entries)
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	sales, err := h.service.Sales(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, sales)
}

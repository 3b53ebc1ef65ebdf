package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/shared"
)

const (
	msgBadCredentials = "Telegram yoki parol noto'g'ri."
	msgInactive       = "Sizning hisobingiz faol emas."
	msgLoggedIn       = "Muvaffaqiyatli kirdingiz"
	msgLoggedOut      = "Muvaffaqiyatli chiqdingiz"
	msgRefreshed      = "Token yangilandi"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, respond: respond}
}

// MountRoutes registers the public login route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

// MountProtectedRoutes registers routes that need RequireToken in front.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
	r.Post("/refresh", h.handleRefresh)
}

type loginRequest struct {
	Telegram   string `json:"telegram" validate:"required"`
	Password   string `json:"password" validate:"required"`
	DeviceName string `json:"device_name" validate:"omitempty,max=100"`
}

type tokenResponse struct {
	User    UserView `json:"user"`
	Token   string   `json:"token"`
	Message string   `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type meResponse struct {
	User UserView `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	sess, err := h.service.Login(r.Context(), req.Telegram, req.Password)
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		httpx.Fail(w, http.StatusUnauthorized, msgBadCredentials, map[string]string{"telegram": msgBadCredentials})
		return
	case errors.Is(err, ErrInactive):
		httpx.Fail(w, http.StatusForbidden, msgInactive, map[string]string{"telegram": msgInactive})
		return
	case err != nil:
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, tokenResponse{User: sess.User.View(), Token: sess.Token, Message: msgLoggedIn})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), shared.PrincipalFromContext(r.Context())); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, messageResponse{Message: msgLoggedOut})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		h.respond.Error(w, r, shared.ErrUnauthorized)
		return
	}
	httpx.OK(w, meResponse{User: principalView(p)})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	token, err := h.service.Refresh(r.Context(), p)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	httpx.OK(w, tokenResponse{User: principalView(p), Token: token, Message: msgRefreshed})
}

func principalView(p *shared.Principal) UserView {
	return UserView{ID: p.UserID, Name: p.Name, Telegram: p.Telegram}
}

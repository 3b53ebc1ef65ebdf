package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dokon-erp/dokon/internal/auth"
	"github.com/dokon-erp/dokon/internal/observability"
	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/shared"
)

type singleUserRepo struct {
	user auth.User
}

func (s singleUserRepo) FindByTelegram(_ context.Context, telegram string) (*auth.User, error) {
	if telegram != s.user.Telegram {
		return nil, shared.ErrNotFound
	}
	u := s.user
	return &u, nil
}

func (s singleUserRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	if id != s.user.ID {
		return nil, shared.ErrNotFound
	}
	u := s.user
	return &u, nil
}

func (s singleUserRepo) Create(context.Context, string, string, string) (*auth.User, error) {
	return nil, errors.New("not supported")
}

func newTestRouter(t *testing.T, checks map[string]HealthCheck) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	respond := httpx.NewResponder(logger, false)
	repo := singleUserRepo{user: auth.User{ID: 1, Name: "Admin", Telegram: "admin", PasswordHash: string(hash), IsActive: true}}
	authService := auth.NewService(repo, auth.NewTokenStore(client, "secret", time.Hour), logger)

	return NewRouter(RouterParams{
		Logger:       logger,
		Config:       &Config{LoginRateLimit: 2, APIRateLimit: 100},
		Respond:      respond,
		Metrics:      observability.NewMetrics(),
		AuthService:  authService,
		AuthHandler:  auth.NewHandler(logger, authService, respond),
		HealthChecks: checks,
		Now:          func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	}
	return rec, payload
}

func TestPingIsPublic(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, payload := do(t, router, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["pong"])
	assert.Equal(t, "2025-07-01T12:00:00Z", payload["time"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHealthzReportsDependencies(t *testing.T) {
	router := newTestRouter(t, map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("down") },
	})

	rec, payload := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", payload["status"])
	assert.Equal(t, "up", payload["postgres"])
	assert.Equal(t, "down", payload["redis"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, payload := do(t, router, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Unauthenticated.", payload["message"])
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, payload := do(t, router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, payload["success"])
}

func TestLoginIsRateLimited(t *testing.T) {
	router := newTestRouter(t, nil)

	for i := 0; i < 2; i++ {
		rec, _ := do(t, router, http.MethodPost, "/login", `{"telegram":"admin","password":"wrong"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec, payload := do(t, router, http.MethodPost, "/login", `{"telegram":"admin","password":"secret123"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, payload["success"])
}

func TestLoginThenMe(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, payload := do(t, router, http.MethodPost, "/login", `{"telegram":"admin","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := payload["data"].(map[string]any)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)

	rec, _ = do(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dokon_http_requests_total{code="200",route="/login"} 1`)
}

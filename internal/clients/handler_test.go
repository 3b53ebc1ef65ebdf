package clients

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokon-erp/dokon/internal/platform/httpx"
)

func newTestRouter(repo *memoryRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(repo, logger), httpx.NewResponder(logger, false))
	r := chi.NewRouter()
	r.Route("/clients", h.MountRoutes)
	r.Route("/statistics", h.MountStatisticsRoutes)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return rec, payload
}

func TestHandlerCreateAcceptsPhoneAlias(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, payload := do(t, router, http.MethodPost, "/clients", `{"name":"Aziz","phone":"+998901234567"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]any)
	assert.Equal(t, "+998901234567", data["telephone"])
	assert.Nil(t, data["telegram"])
}

func TestHandlerCreateValidation(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, payload := do(t, router, http.MethodPost, "/clients", `{"name":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, false, payload["success"])
	errs := payload["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "telephone")
}

func TestHandlerListWithStats(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)
	_, payload := do(t, router, http.MethodPost, "/clients", `{"name":"Aziz","telephone":"1"}`)
	id := int64(payload["data"].(map[string]any)["id"].(float64))
	now := time.Now().UTC()
	repo.addDebt(id, "50000", now)
	repo.addPayment(id, "20000", now)

	rec, payload := do(t, router, http.MethodGet, "/clients?month="+now.Format("2006-01"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := payload["data"].(map[string]any)
	assert.Equal(t, float64(50), page["per_page"])
	rows := page["data"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, float64(30000), row["remaining_debt"])
	assert.Equal(t, "Aziz", row["name"])

	rec, _ = do(t, router, http.MethodGet, "/clients?month=July", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, payload = do(t, router, http.MethodGet, "/clients?with_stats=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	row = payload["data"].(map[string]any)["data"].([]any)[0].(map[string]any)
	assert.NotContains(t, row, "remaining_debt")
}

func TestHandlerUpdateDeleteNotFound(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, _ := do(t, router, http.MethodPut, "/clients/77", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodDelete, "/clients/77", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/clients/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerMonthlyStatistics(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)
	repo.addDebt(1, "10", time.Now().UTC())

	rec, payload := do(t, router, http.MethodGet, "/statistics/monthly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "all", data["month"])
	assert.Equal(t, float64(10), data["remaining_debt"])
}

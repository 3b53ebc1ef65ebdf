package dashboard

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokon-erp/dokon/internal/ledger"
	"github.com/dokon-erp/dokon/internal/platform/httpx"
)

func newTestRouter(src Sources) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(src, logger), httpx.NewResponder(logger, false))
	r := chi.NewRouter()
	r.Route("/dashboard", h.MountRoutes)
	return r
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return rec, payload
}

func TestHandlerStatistic(t *testing.T) {
	router := newTestRouter(testSources())

	rec, payload := get(t, router, "/dashboard/statistic?month=2025-07")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]any)
	for _, key := range []string{"count_client", "total_debt", "total_revenue", "total_expense", "less_product", "count_products", "all_benefit"} {
		assert.Contains(t, data, key)
	}
	assert.Equal(t, float64(30000), data["total_debt"])
	assert.Equal(t, float64(60000), data["all_benefit"])

	rec, _ = get(t, router, "/dashboard/statistic?month=July")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandlerLessProductsAlias(t *testing.T) {
	router := newTestRouter(testSources())
	for _, path := range []string{"/dashboard/lass-products", "/dashboard/less-products"} {
		rec, payload := get(t, router, path)
		require.Equal(t, http.StatusOK, rec.Code)
		items := payload["data"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, true, items[0].(map[string]any)["low_stock"])
	}
}

func TestHandlerRecentPaymentsLimit(t *testing.T) {
	src := testSources()
	src.Payments.(*stubLedger).recent = []ledger.Entry{{ID: 1, ClientID: 1, ClientName: "Aziz"}}
	router := newTestRouter(src)

	rec, payload := get(t, router, "/dashboard/recent-payments?limit=500")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxRecent, src.Payments.(*stubLedger).limit)
	assert.Equal(t, "Aziz", payload["data"].([]any)[0].(map[string]any)["client_name"])

	rec, _ = get(t, router, "/dashboard/recent-payments?limit=-1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

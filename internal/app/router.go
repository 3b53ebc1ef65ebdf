package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dokon-erp/dokon/internal/auth"
	"github.com/dokon-erp/dokon/internal/clients"
	"github.com/dokon-erp/dokon/internal/dashboard"
	"github.com/dokon-erp/dokon/internal/expenses"
	"github.com/dokon-erp/dokon/internal/inventory"
	"github.com/dokon-erp/dokon/internal/ledger"
	"github.com/dokon-erp/dokon/internal/observability"
	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/profits"
)

// HealthCheck probes one dependency for /healthz.
type HealthCheck func(ctx context.Context) error

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Respond *httpx.Responder
	Metrics *observability.Metrics

	AuthService      *auth.Service
	AuthHandler      *auth.Handler
	ClientsHandler   *clients.Handler
	DebtsHandler     *ledger.Handler
	PaymentsHandler  *ledger.Handler
	ProductsHandler  *inventory.Handler
	ExpensesHandler  *expenses.Handler
	ProfitsHandler   *profits.Handler
	DashboardHandler *dashboard.Handler

	HealthChecks map[string]HealthCheck
	Now          func() time.Time
}

// NewRouter constructs the chi.Router with API defaults.
func NewRouter(params RouterParams) http.Handler {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{"pong": true, "time": now().UTC().Format(time.RFC3339)})
	})
	r.Get("/healthz", healthHandler(params.Logger, params.HealthChecks))
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	loginLimit, apiLimit := 5, 120
	if params.Config != nil {
		loginLimit, apiLimit = params.Config.LoginRateLimit, params.Config.APIRateLimit
	}

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(loginLimit, time.Minute))
		params.AuthHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(apiLimit, time.Minute))
		r.Use(auth.RequireToken(params.AuthService, params.Respond))

		params.AuthHandler.MountProtectedRoutes(r)
		if params.ClientsHandler != nil {
			r.Route("/clients", params.ClientsHandler.MountRoutes)
			r.Route("/statistics", params.ClientsHandler.MountStatisticsRoutes)
		}
		if params.DebtsHandler != nil {
			r.Route("/debts", params.DebtsHandler.MountRoutes)
		}
		if params.PaymentsHandler != nil {
			r.Route("/payments", params.PaymentsHandler.MountRoutes)
		}
		if params.ProductsHandler != nil {
			r.Route("/products", params.ProductsHandler.MountRoutes)
		}
		if params.ExpensesHandler != nil {
			r.Route("/expenses", params.ExpensesHandler.MountRoutes)
		}
		if params.ProfitsHandler != nil {
			r.Route("/profits", params.ProfitsHandler.MountRoutes)
		}
		if params.DashboardHandler != nil {
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		}
	})

	return r
}

func healthHandler(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		status := http.StatusOK
		report := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", slog.String("dependency", name), slog.Any("error", err))
				report[name] = "down"
				report["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "up"
		}
		httpx.JSON(w, status, report)
	}
}

package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the API.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	stockUnits      prometheus.Counter
	saleUnits       prometheus.Counter
	salesTotal      prometheus.Counter
	saleRevenue     prometheus.Counter
	salesRejected   prometheus.Counter
}

// NewMetrics initialises the registry with HTTP and inventory metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dokon_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dokon_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	m := &Metrics{
		registry:        registry,
		requestsTotal:   requests,
		requestDuration: duration,
		stockUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dokon_stock_units_added_total",
			Help: "Units received through stock entries.",
		}),
		saleUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dokon_sale_units_total",
			Help: "Units sold.",
		}),
		salesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dokon_sales_total",
			Help: "Recorded sales.",
		}),
		saleRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dokon_sale_revenue_total",
			Help: "Sum of quantity times unit price over recorded sales.",
		}),
		salesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dokon_sales_rejected_total",
			Help: "Sales rejected for insufficient stock.",
		}),
	}
	registry.MustRegister(
		requests, duration,
		m.stockUnits, m.saleUnits, m.salesTotal, m.saleRevenue, m.salesRejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// StockAdded counts received units.
func (m *Metrics) StockAdded(quantity int) {
	m.stockUnits.Add(float64(quantity))
}

// SaleRecorded counts a completed sale.
func (m *Metrics) SaleRecorded(quantity int, amount float64) {
	m.salesTotal.Inc()
	m.saleUnits.Add(float64(quantity))
	if amount > 0 {
		m.saleRevenue.Add(amount)
	}
}

// SaleRejected counts a sale refused for lack of stock.
func (m *Metrics) SaleRejected() {
	m.salesRejected.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}

package api

import (
	"net/http"
	"route-time-service/internal/api/handlers"
	"route-time-service/internal/platform/obs"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// RouterOptions carries the optional HTTP concerns.
type RouterOptions struct {
	// Metrics enables per-route instrumentation; Gatherer serves /metrics.
	Metrics  *obs.Metrics
	Gatherer prometheus.Gatherer
	// CORSOrigins lists allowed browser origins. Empty disables CORS headers.
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(estimator handlers.Estimator, opts RouterOptions) http.Handler {
	r := mux.NewRouter()

	routeHandler := &handlers.RouteTimeHandler{Estimator: estimator}
	healthHandler := &handlers.HealthHandler{Estimator: estimator}

	r.HandleFunc("/api/hello", handlers.Hello)
	r.HandleFunc("/api/route-time", routeHandler.RouteTime)
	r.HandleFunc("/health", healthHandler.Health)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.Metrics != nil {
		r.Use(metricsMiddleware(opts.Metrics))
	}
	// Inside metrics, so a recovered panic is counted as a 500.
	r.Use(recoveryMiddleware)

	var h http.Handler = r
	if len(opts.CORSOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", requestIDHeader},
		}).Handler(h)
	}

	// The outer recovery covers panics raised before a route matched.
	return requestIDMiddleware(loggingMiddleware(recoveryMiddleware(h)))
}

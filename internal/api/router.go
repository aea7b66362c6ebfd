package api

import (
	"context"
	"net/http"
	"time"
	"vehicle-routing-service/internal/api/handlers"
	"vehicle-routing-service/internal/platform/metrics"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig carries the dependencies and HTTP policies of the router.
type RouterConfig struct {
	Service      handlers.RoutingService
	Timeout      time.Duration
	AllowOrigins []string
	// RateRPS <= 0 disables rate limiting.
	RateRPS   float64
	RateBurst int
	Checks    map[string]func(ctx context.Context) error
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	solveHandler := &handlers.SolveHandler{Service: cfg.Service, Timeout: cfg.Timeout}
	streamHandler := &handlers.StreamHandler{
		Service:  cfg.Service,
		Timeout:  cfg.Timeout,
		Upgrader: websocket.Upgrader{CheckOrigin: originChecker(cfg.AllowOrigins)},
	}
	runsHandler := &handlers.RunsHandler{Service: cfg.Service}
	healthHandler := &handlers.HealthHandler{Checks: cfg.Checks}

	mux.HandleFunc("/api/solveVehicleRoutingProblem", solveHandler.Solve)
	mux.HandleFunc("/api/solveVehicleRoutingProblem/ws", streamHandler.Stream)
	mux.HandleFunc("/api/runs", runsHandler.List)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/swagger", handlers.Swagger)
	mux.HandleFunc("/static/swagger.yaml", handlers.SwaggerYAML)

	var limiter *rate.Limiter
	if cfg.RateRPS > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), burst)
	}

	var h http.Handler = mux
	h = rateLimitMiddleware(limiter, h)
	h = corsMiddleware(cfg.AllowOrigins, h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

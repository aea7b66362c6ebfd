package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Solves counts finished solves by outcome.
	Solves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrp_solves_total", Help: "Solves by outcome."},
		[]string{"outcome"},
	)
	// SolveDuration records wall-clock solve time in seconds.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrp_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
	)
	// SearchMoves counts accepted local search moves by neighborhood.
	SearchMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrp_search_moves_total", Help: "Accepted local search moves by kind."},
		[]string{"move"},
	)
	// SearchLocalOptima counts local optima where guided local search raised penalties.
	SearchLocalOptima = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "vrp_search_local_optima_total", Help: "Local optima reached."},
	)
	// SearchStops counts how searches ended.
	SearchStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrp_search_stops_total", Help: "Search terminations by event."},
		[]string{"event"},
	)
)

// RegisterDefault registers every collector on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Solves)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SearchMoves)
		Registry.MustRegister(SearchLocalOptima)
		Registry.MustRegister(SearchStops)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

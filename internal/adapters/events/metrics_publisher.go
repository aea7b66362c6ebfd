package events

import (
	"vehicle-routing-service/internal/platform/metrics"
	"vehicle-routing-service/internal/solver"
)

// MetricsPublisher feeds search events into the Prometheus collectors.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(_ string, e solver.Event) {
	switch e.Kind {
	case solver.EventMoveAccepted:
		metrics.SearchMoves.WithLabelValues(string(e.Move)).Inc()
	case solver.EventLocalOptimum:
		metrics.SearchLocalOptima.Inc()
	case solver.EventDeadlineReached, solver.EventConverged:
		metrics.SearchStops.WithLabelValues(string(e.Kind)).Inc()
	}
}

package ports

import (
	"vehicle-routing-service/internal/solver"
)

// Port: a sink for solver trace events of a given run.
// Publish must not block the search.
type EventPublisher interface {
	Publish(runID string, evt solver.Event)
}

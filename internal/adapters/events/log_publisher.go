package events

import (
	"log"
	"strings"
	"vehicle-routing-service/internal/solver"
)

// LogPublisher logs search milestones as key=value lines.
// Accepted moves are not logged; MetricsPublisher counts them.
type LogPublisher struct {
	Logger *log.Logger
}

func (p LogPublisher) Publish(runID string, e solver.Event) {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}

	switch e.Kind {
	case solver.EventMoveAccepted:
		return
	case solver.EventRouteConstructed:
		ids := make([]string, 0, len(e.Jobs))
		for _, id := range e.Jobs {
			ids = append(ids, id.String())
		}
		logger.Printf("run_id=%s event=%s vehicle=%s jobs=[%s] cost=%d",
			runID, e.Kind, e.Vehicle, strings.Join(ids, ","), e.Cost)
	case solver.EventLocalOptimum:
		logger.Printf("run_id=%s event=%s penalized=%d cost=%d best=%d elapsed=%dms",
			runID, e.Kind, e.Penalized, e.Cost, e.BestCost, e.Elapsed.Milliseconds())
	default:
		logger.Printf("run_id=%s event=%s cost=%d best=%d elapsed=%dms",
			runID, e.Kind, e.Cost, e.BestCost, e.Elapsed.Milliseconds())
	}
}

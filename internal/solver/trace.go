package solver

import (
	"time"

	"vehicle-routing-service/internal/domain"
)

// EventKind names a well-defined point of the search.
type EventKind string

const (
	EventRouteConstructed EventKind = "route_constructed"
	EventMoveAccepted     EventKind = "move_accepted"
	EventLocalOptimum     EventKind = "local_optimum"
	EventNewBest          EventKind = "new_best"
	EventDeadlineReached  EventKind = "deadline_reached"
	EventConverged        EventKind = "converged"
)

// Event is what the search reports to a Tracer.
//
// LocalOptimum means every candidate move of every neighborhood was rejected;
// Penalized then holds the number of arcs whose penalty was raised.
type Event struct {
	Kind      EventKind     `json:"kind"`
	Vehicle   domain.ID     `json:"vehicle,omitempty"`
	Jobs      []domain.ID   `json:"jobs,omitempty"`
	Move      MoveKind      `json:"move,omitempty"`
	Penalized int           `json:"penalized,omitempty"`
	Cost      int64         `json:"cost"`
	BestCost  int64         `json:"best_cost"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Tracer receives search events. The search calls it only from its serialized
// commit path, never from parallel move evaluation, and never waits on it for
// anything other than the call itself, so implementations must return quickly.
type Tracer interface {
	Trace(e Event)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(e Event)

func (f TracerFunc) Trace(e Event) { f(e) }

// MultiTracer fans an event out to every non-nil tracer in order.
type MultiTracer []Tracer

func (m MultiTracer) Trace(e Event) {
	for _, t := range m {
		if t != nil {
			t.Trace(e)
		}
	}
}

var nopTracer Tracer = TracerFunc(func(Event) {})

package solver

import (
	"math"

	"vehicle-routing-service/internal/domain"
)

// Dimension is one cumulative quantity tracked along every route.
type Dimension uint8

const (
	// DimCapacity tracks the load carried so far. It starts at exactly 0 at the
	// vehicle start, has no slack and is bounded by the vehicle capacity.
	DimCapacity Dimension = 1 << iota
	// DimTimeWindow tracks elapsed time. Waiting until a window opens is free;
	// arriving after it closes is infeasible.
	DimTimeWindow
)

func (d Dimension) String() string {
	switch d {
	case DimCapacity:
		return "capacity"
	case DimTimeWindow:
		return "time_window"
	}
	return "unknown"
}

// ConstraintSet is the tagged set of dimensions enabled for a solve, built
// once from the fields present in the input.
type ConstraintSet struct {
	dims    Dimension
	windows []domain.TimeWindow // per node, set only with DimTimeWindow
}

// Has reports whether dimension d is enabled.
func (c ConstraintSet) Has(d Dimension) bool { return c.dims&d != 0 }

// Dimensions lists the enabled dimensions.
func (c ConstraintSet) Dimensions() []Dimension {
	var out []Dimension
	for _, d := range []Dimension{DimCapacity, DimTimeWindow} {
		if c.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Window returns the time window of node n.
func (c ConstraintSet) Window(n int) (domain.TimeWindow, bool) {
	if !c.Has(DimTimeWindow) {
		return domain.TimeWindow{}, false
	}
	return c.windows[n], true
}

var unbounded = domain.TimeWindow{Earliest: 0, Latest: math.MaxInt64}

// cumul is the running value of every dimension at a point of a route.
type cumul struct {
	load int64
	time int64
}

// Model pairs the routing graph with the constraints layered on it.
type Model struct {
	Graph       *Graph
	Constraints ConstraintSet
}

// begin returns the dimension values at the start anchor of vehicle v.
// The time dimension is pinned to the start location's own window; departing
// at its earliest point is never worse than departing later.
func (m *Model) begin(v int) cumul {
	c := cumul{}
	if m.Constraints.Has(DimTimeWindow) {
		c.time = m.Constraints.windows[m.Graph.vehicles[v].start].Earliest
	}
	return c
}

// visit advances c over an arc of duration arc into node to and reports
// whether every dimension is still within bounds at to.
func (m *Model) visit(v int, c *cumul, to int, arc int64) bool {
	if m.Constraints.Has(DimCapacity) {
		demand := m.Graph.nodes[to].demand
		if demand > m.Graph.vehicles[v].capacity-c.load {
			return false
		}
		c.load += demand
	}

	if m.Constraints.Has(DimTimeWindow) {
		w := m.Constraints.windows[to]
		t := addSat(c.time, arc)
		if t < w.Earliest {
			t = w.Earliest
		}
		if t > w.Latest {
			return false
		}
		c.time = t
	}

	return true
}

// addSat adds two non-negative values, clamping at math.MaxInt64.
func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

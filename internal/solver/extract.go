package solver

import (
	"errors"
	"fmt"

	"vehicle-routing-service/internal/domain"
)

// Extract translates an assignment into the caller-facing solution. Every
// vehicle gets a route, empty or not, in input order. A route's duration is
// the sum of arc costs from its start anchor to the sink; the closing arc into
// the sink costs nothing. Durations and the total clamp at math.MaxInt64.
func (m *Model) Extract(a *Assignment) *domain.Solution {
	g := m.Graph
	tw := m.Constraints.Has(DimTimeWindow)
	sol := &domain.Solution{Routes: make([]domain.Route, 0, len(g.vehicles))}

	for v := range g.vehicles {
		path := a.Path(g, v)
		c := m.begin(v)
		start := c.time

		route := domain.Route{VehicleID: g.vehicleIDs[v], Jobs: make([]domain.ID, 0, len(path)-2)}
		for k := 1; k < len(path); k++ {
			arc := g.Arc(path[k-1], path[k])
			m.visit(v, &c, path[k], arc)
			route.DeliveryDuration = addSat(route.DeliveryDuration, arc)
			if g.isJob(path[k]) {
				route.Jobs = append(route.Jobs, g.jobID(path[k]))
			}
		}

		if tw {
			end := c.time
			route.StartTime = &start
			route.EndTime = &end
		}

		sol.TotalDeliveryDuration = addSat(sol.TotalDeliveryDuration, route.DeliveryDuration)
		sol.Routes = append(sol.Routes, route)
	}
	return sol
}

// Check verifies that a is a complete, feasible assignment: every job visited
// exactly once, no start anchor or sink inside a route, and every enabled
// dimension within bounds at every node.
func (m *Model) Check(a *Assignment) error {
	g := m.Graph
	if a == nil {
		return errors.New("check: no assignment")
	}
	if len(a.Routes) != len(g.vehicles) {
		return fmt.Errorf("check: %d routes for %d vehicles", len(a.Routes), len(g.vehicles))
	}

	seen := make([]bool, len(g.nodes))
	for v, r := range a.Routes {
		prev := g.vehicles[v].start
		c := m.begin(v)
		for _, n := range r {
			if n < 0 || n >= len(g.nodes) || !g.isJob(n) {
				return fmt.Errorf("check: vehicle %s: node %d is not a job visit", g.vehicleIDs[v], n)
			}
			if seen[n] {
				return fmt.Errorf("check: job %s visited more than once", g.jobID(n))
			}
			seen[n] = true
			if !m.visit(v, &c, n, g.Arc(prev, n)) {
				return fmt.Errorf("check: vehicle %s: job %s violates capacity or time window", g.vehicleIDs[v], g.jobID(n))
			}
			prev = n
		}
	}

	for _, n := range g.jobNodes {
		if !seen[n] {
			return fmt.Errorf("check: job %s is not visited", g.jobID(n))
		}
	}
	return nil
}

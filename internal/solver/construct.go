package solver

import "vehicle-routing-service/internal/domain"

// construct builds the first feasible assignment.
//
// Path cheapest arc: repeatedly pick, over every vehicle, the unassigned job
// reachable from the current end of that vehicle's route through the cheapest
// arc that keeps every dimension feasible, and append it. Ties go to the lower
// vehicle index, then to the lower job index. Jobs left when no route can be
// extended are tried with cheapest feasible insertion at any position; any job
// that still does not fit makes the problem infeasible.
func (s *search) construct() error {
	g := s.g
	nv := len(g.vehicles)

	last := make([]int, nv)
	cums := make([]cumul, nv)
	for v := range g.vehicles {
		last[v] = g.vehicles[v].start
		cums[v] = s.model.begin(v)
	}

	assigned := make([]bool, len(g.nodes))
	remaining := len(g.jobNodes)

	for remaining > 0 {
		if s.expired() {
			return &domain.InfeasibleError{
				Reason:     "time budget exhausted before a feasible assignment was found",
				Unassigned: s.unassigned(assigned),
			}
		}

		bestV, bestN := -1, -1
		var bestArc int64
		var bestC cumul

		for v := 0; v < nv; v++ {
			for _, n := range g.jobNodes {
				if assigned[n] {
					continue
				}
				arc := g.Arc(last[v], n)
				if bestV >= 0 && arc >= bestArc {
					continue
				}
				c := cums[v]
				if !s.model.visit(v, &c, n, arc) {
					continue
				}
				bestV, bestN, bestArc, bestC = v, n, arc, c
			}
		}

		if bestV < 0 {
			break
		}

		s.routes[bestV] = append(s.routes[bestV], bestN)
		assigned[bestN] = true
		last[bestV] = bestN
		cums[bestV] = bestC
		remaining--
	}

	for v := range s.routes {
		s.refresh(v)
	}

	if remaining > 0 {
		for _, n := range g.jobNodes {
			if assigned[n] {
				continue
			}
			if s.insertCheapest(n) {
				assigned[n] = true
				remaining--
			}
		}
	}

	if remaining > 0 {
		return &domain.InfeasibleError{
			Reason:     "no assignment satisfies the capacity and time window constraints for every job",
			Unassigned: s.unassigned(assigned),
		}
	}

	s.record()
	s.stats.InitialCost = s.bestCost

	for v, r := range s.routes {
		ev := s.event(EventRouteConstructed)
		ev.Vehicle = g.vehicleIDs[v]
		ev.Jobs = s.jobIDs(r)
		ev.Cost = s.states[v].cost
		s.tracer.Trace(ev)
	}

	return nil
}

// insertCheapest inserts job node n where it increases route cost the least
// while keeping the route feasible.
func (s *search) insertCheapest(n int) bool {
	bestV, bestPos := -1, -1
	var bestDelta int64
	var bestState routeState

	one := []int{n}
	for v, r := range s.routes {
		if s.g.nodes[n].demand > s.g.vehicles[v].capacity-s.states[v].load {
			continue
		}
		for pos := 0; pos <= len(r); pos++ {
			st := s.eval(v, fwd(r[:pos]), fwd(one), fwd(r[pos:]))
			if !st.feasible {
				continue
			}
			if d := st.cost - s.states[v].cost; bestV < 0 || d < bestDelta {
				bestV, bestPos, bestDelta, bestState = v, pos, d, st
			}
		}
	}

	if bestV < 0 {
		return false
	}

	r := s.routes[bestV]
	s.routes[bestV] = concat(fwd(r[:bestPos]), fwd(one), fwd(r[bestPos:]))
	s.states[bestV] = bestState
	return true
}

func (s *search) unassigned(assigned []bool) []domain.ID {
	var out []domain.ID
	for _, n := range s.g.jobNodes {
		if !assigned[n] {
			out = append(out, s.g.jobID(n))
		}
	}
	return out
}

func (s *search) jobIDs(route []int) []domain.ID {
	out := make([]domain.ID, 0, len(route))
	for _, n := range route {
		out = append(out, s.g.jobID(n))
	}
	return out
}

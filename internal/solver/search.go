package solver

import (
	"time"
)

// Assignment holds, per vehicle, the job nodes visited between its start
// anchor and the sink, in visit order.
type Assignment struct {
	Routes [][]int
}

// Path returns the full node path of vehicle v, from start anchor to sink.
func (a *Assignment) Path(g *Graph, v int) []int {
	out := make([]int, 0, len(a.Routes[v])+2)
	out = append(out, g.Start(v))
	out = append(out, a.Routes[v]...)
	return append(out, g.End(v))
}

func (a *Assignment) clone() *Assignment {
	out := &Assignment{Routes: make([][]int, len(a.Routes))}
	for v, r := range a.Routes {
		out.Routes[v] = append([]int(nil), r...)
	}
	return out
}

// routeState summarizes one evaluated route. penalty is the sum of guided
// local search penalties over its arcs.
type routeState struct {
	feasible bool
	cost     int64
	penalty  int64
	start    int64
	end      int64
	load     int64
}

// seg is a view of a slice of job nodes, walked backwards when rev is set.
type seg struct {
	nodes []int
	rev   bool
}

func fwd(nodes []int) seg { return seg{nodes: nodes} }

func concat(segs ...seg) []int {
	n := 0
	for _, sg := range segs {
		n += len(sg.nodes)
	}
	out := make([]int, 0, n)
	for _, sg := range segs {
		if !sg.rev {
			out = append(out, sg.nodes...)
			continue
		}
		for k := len(sg.nodes) - 1; k >= 0; k-- {
			out = append(out, sg.nodes[k])
		}
	}
	return out
}

type search struct {
	model  *Model
	g      *Graph
	opts   Options
	tracer Tracer

	began    time.Time
	deadline time.Time

	routes [][]int
	states []routeState

	// penalty counts, indexed by from*NumNodes()+to.
	penalty []int32
	lambda  float64

	best     *Assignment
	bestCost int64
	bestSec  int64

	stats Stats
}

func newSearch(m *Model, opts Options) *search {
	began := time.Now()
	nn := m.Graph.NumNodes()
	return &search{
		model:    m,
		g:        m.Graph,
		opts:     opts,
		tracer:   opts.Tracer,
		began:    began,
		deadline: began.Add(opts.TimeLimit),
		routes:   make([][]int, m.Graph.NumVehicles()),
		states:   make([]routeState, m.Graph.NumVehicles()),
		penalty:  make([]int32, nn*nn),
		stats:    Stats{Moves: make(map[MoveKind]int)},
	}
}

func (s *search) expired() bool { return time.Now().After(s.deadline) }

// eval walks vehicle v's route made of segs and accumulates its cost,
// penalties and dimension values. It stops at the first violated dimension.
func (s *search) eval(v int, segs ...seg) routeState {
	g := s.g
	nn := len(g.nodes)
	prev := g.vehicles[v].start
	c := s.model.begin(v)
	st := routeState{feasible: true, start: c.time}

	for _, sg := range segs {
		n := len(sg.nodes)
		for k := 0; k < n; k++ {
			to := sg.nodes[k]
			if sg.rev {
				to = sg.nodes[n-1-k]
			}
			arc := g.Arc(prev, to)
			if !s.model.visit(v, &c, to, arc) {
				st.feasible = false
				return st
			}
			st.cost = addSat(st.cost, arc)
			st.penalty += int64(s.penalty[prev*nn+to])
			prev = to
		}
	}

	end := g.vehicles[v].end
	arc := g.Arc(prev, end)
	s.model.visit(v, &c, end, arc)
	st.cost = addSat(st.cost, arc)
	st.penalty += int64(s.penalty[prev*nn+end])
	st.end = c.time
	st.load = c.load
	return st
}

func (s *search) refresh(v int) { s.states[v] = s.eval(v, fwd(s.routes[v])) }

func (s *search) augmented(st routeState) float64 {
	return float64(st.cost) + s.lambda*float64(st.penalty)
}

// secondary is the soft objective layered under travel duration when time
// windows are enabled: the elapsed time at the start and at the end of the route.
func (s *search) secondary(st routeState) int64 {
	if !s.model.Constraints.Has(DimTimeWindow) {
		return 0
	}
	return addSat(st.start, st.end)
}

const augEps = 1e-6

// improves reports whether replacing the routes in old with next lowers the
// augmented cost, or keeps it and lowers the secondary objective.
func (s *search) improves(old, next []routeState) bool {
	var dAug float64
	var oldSec, nextSec int64
	for i := range next {
		if !next[i].feasible {
			return false
		}
		dAug += s.augmented(next[i]) - s.augmented(old[i])
		oldSec = addSat(oldSec, s.secondary(old[i]))
		nextSec = addSat(nextSec, s.secondary(next[i]))
	}
	if dAug < -augEps {
		return true
	}
	return dAug <= augEps && nextSec < oldSec
}

func (s *search) totals() (cost, sec int64) {
	for _, st := range s.states {
		cost = addSat(cost, st.cost)
		sec = addSat(sec, s.secondary(st))
	}
	return cost, sec
}

// record keeps the current assignment as best when it is cheaper, or as cheap
// with a lower secondary objective.
func (s *search) record() bool {
	cost, sec := s.totals()
	if s.best != nil && (cost > s.bestCost || (cost == s.bestCost && sec >= s.bestSec)) {
		return false
	}
	s.best = (&Assignment{Routes: s.routes}).clone()
	s.bestCost = cost
	s.bestSec = sec
	s.stats.BestCost = cost
	return true
}

func (s *search) bestAssignment() *Assignment { return s.best }

func (s *search) event(kind EventKind) Event {
	cost, _ := s.totals()
	return Event{Kind: kind, Cost: cost, BestCost: s.bestCost, Elapsed: time.Since(s.began)}
}

package solver

import (
	"context"
	"errors"
)

// improve runs guided local search from the constructed assignment until the
// deadline, the iteration limit or convergence.
//
// Each step accepts the first candidate in exploration order that lowers the
// augmented cost (travel duration plus lambda times the penalties of the arcs
// used). When no candidate does, the route is at a local optimum: the arcs of
// maximal utility cost/(1+penalty) get their penalty raised, which lets the
// search climb out. The best assignment is tracked on real cost only.
func (s *search) improve() {
	ctx := context.Background()
	tasks := s.tasks()

	for {
		if reason, done := s.shouldStop(); done {
			s.stop(reason)
			return
		}

		mv, feasible, err := s.findMove(ctx, tasks)
		if errors.Is(err, errDeadline) || errors.Is(err, context.DeadlineExceeded) {
			s.stop(StopDeadline)
			return
		}
		s.stats.Iterations++

		if mv != nil {
			s.apply(mv)
			s.stats.Moves[mv.kind]++

			ev := s.event(EventMoveAccepted)
			ev.Move = mv.kind
			s.tracer.Trace(ev)

			if s.record() {
				s.tracer.Trace(s.event(EventNewBest))
			}
			continue
		}

		s.stats.LocalOptima++
		if feasible == 0 {
			s.stop(StopConverged)
			return
		}

		if s.lambda == 0 {
			cost, _ := s.totals()
			s.lambda = s.opts.PenaltyFactor * float64(cost) / float64(s.numArcs())
		}

		penalized := s.penalize()
		ev := s.event(EventLocalOptimum)
		ev.Penalized = penalized
		s.tracer.Trace(ev)

		if penalized == 0 || s.lambda == 0 {
			s.stop(StopConverged)
			return
		}
		for v := range s.routes {
			s.refresh(v)
		}
	}
}

func (s *search) shouldStop() (StopReason, bool) {
	if len(s.g.jobNodes) == 0 {
		return StopConverged, true
	}
	// Durations are non-negative, so a zero-cost assignment cannot be beaten
	// unless a secondary objective is in play.
	if s.bestCost == 0 && !s.model.Constraints.Has(DimTimeWindow) {
		return StopConverged, true
	}
	if s.opts.IterationLimit > 0 && s.stats.Iterations >= s.opts.IterationLimit {
		return StopIterationLimit, true
	}
	if s.expired() {
		return StopDeadline, true
	}
	return "", false
}

func (s *search) stop(reason StopReason) {
	s.stats.StopReason = reason
	switch reason {
	case StopDeadline:
		s.tracer.Trace(s.event(EventDeadlineReached))
	case StopConverged:
		s.tracer.Trace(s.event(EventConverged))
	}
}

// numArcs is the number of arcs used by any assignment: one per job plus the
// closing arc of every vehicle.
func (s *search) numArcs() int { return len(s.g.jobNodes) + len(s.routes) }

// penalize raises the penalty of every arc of the current assignment whose
// utility is maximal and returns how many arcs were penalized.
func (s *search) penalize() int {
	nn := len(s.g.nodes)
	var arcs []int
	maxUtil := 0.0

	for v, r := range s.routes {
		prev := s.g.vehicles[v].start
		walk := append(append(make([]int, 0, len(r)+1), r...), s.g.vehicles[v].end)
		for _, to := range walk {
			c := s.g.Arc(prev, to)
			if c > 0 {
				idx := prev*nn + to
				util := float64(c) / float64(1+s.penalty[idx])
				switch {
				case util > maxUtil:
					maxUtil = util
					arcs = append(arcs[:0], idx)
				case util == maxUtil:
					arcs = append(arcs, idx)
				}
			}
			prev = to
		}
	}

	for _, idx := range arcs {
		s.penalty[idx]++
	}
	return len(arcs)
}

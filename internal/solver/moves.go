package solver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MoveKind names a local search neighborhood.
type MoveKind string

const (
	// MoveRelocate moves a segment of one to three consecutive jobs to another
	// position, in the same route or in another one.
	MoveRelocate MoveKind = "relocate"
	// MoveExchange swaps two jobs.
	MoveExchange MoveKind = "exchange"
	// MoveTwoOpt reverses a stretch of a single route.
	MoveTwoOpt MoveKind = "two_opt"
	// MoveCross swaps the tails of two routes.
	MoveCross MoveKind = "cross"
)

// MoveKinds lists the neighborhoods in the order the search explores them.
var MoveKinds = []MoveKind{MoveRelocate, MoveExchange, MoveTwoOpt, MoveCross}

const maxSegment = 3

// checkEvery is how many candidate evaluations run between deadline checks.
const checkEvery = 64

// move is a candidate the search may accept. vb is -1 for moves that only
// touch route va.
type move struct {
	kind   MoveKind
	va, vb int
	segsA  []seg
	segsB  []seg
	next   []routeState
}

// task is one unit of neighborhood exploration: one neighborhood over one
// pair of vehicles.
type task struct {
	kind   MoveKind
	va, vb int
}

type scanResult struct {
	mv       *move
	feasible int
}

// tasks enumerates the exploration order. It is fixed for a given number of
// vehicles, which keeps the search deterministic.
func (s *search) tasks() []task {
	nv := len(s.routes)
	var out []task
	for a := 0; a < nv; a++ {
		for b := 0; b < nv; b++ {
			out = append(out, task{kind: MoveRelocate, va: a, vb: b})
		}
	}
	for a := 0; a < nv; a++ {
		for b := a; b < nv; b++ {
			out = append(out, task{kind: MoveExchange, va: a, vb: b})
		}
	}
	for a := 0; a < nv; a++ {
		out = append(out, task{kind: MoveTwoOpt, va: a, vb: a})
	}
	for a := 0; a < nv; a++ {
		for b := a + 1; b < nv; b++ {
			out = append(out, task{kind: MoveCross, va: a, vb: b})
		}
	}
	return out
}

// findMove returns the first improving move in exploration order, together
// with the number of feasible candidates evaluated on the way. Tasks are run
// in batches of Workers goroutines; the lowest-index task holding a move wins,
// so the result does not depend on the number of workers.
func (s *search) findMove(ctx context.Context, tasks []task) (*move, int, error) {
	workers := s.opts.Workers
	feasible := 0

	for lo := 0; lo < len(tasks); lo += workers {
		hi := min(lo+workers, len(tasks))
		batch := tasks[lo:hi]
		results := make([]scanResult, len(batch))

		if len(batch) == 1 {
			r, err := s.scan(ctx, batch[0])
			if err != nil {
				return nil, feasible, err
			}
			results[0] = r
		} else {
			eg, ectx := errgroup.WithContext(ctx)
			for i, t := range batch {
				eg.Go(func() error {
					r, err := s.scan(ectx, t)
					results[i] = r
					return err
				})
			}
			if err := eg.Wait(); err != nil {
				return nil, feasible, err
			}
		}

		for _, r := range results {
			feasible += r.feasible
			if r.mv != nil {
				return r.mv, feasible, nil
			}
		}
	}
	return nil, feasible, nil
}

// ticker counts evaluations of one scan and periodically checks for
// cancellation and the deadline.
type ticker struct {
	s *search
	n int
}

func (t *ticker) tick(ctx context.Context) error {
	t.n++
	if t.n%checkEvery != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.s.expired() {
		return errDeadline
	}
	return nil
}

// scan explores one task and stops at its first improving candidate.
// It only reads search state, so scans may run concurrently.
func (s *search) scan(ctx context.Context, t task) (scanResult, error) {
	switch t.kind {
	case MoveRelocate:
		if t.va == t.vb {
			return s.scanRelocateIntra(ctx, t.va)
		}
		return s.scanRelocateInter(ctx, t.va, t.vb)
	case MoveExchange:
		if t.va == t.vb {
			return s.scanExchangeIntra(ctx, t.va)
		}
		return s.scanExchangeInter(ctx, t.va, t.vb)
	case MoveTwoOpt:
		return s.scanTwoOpt(ctx, t.va)
	case MoveCross:
		return s.scanCross(ctx, t.va, t.vb)
	}
	return scanResult{}, nil
}

func (s *search) tryOne(res *scanResult, kind MoveKind, v int, segs []seg) bool {
	st := s.eval(v, segs...)
	if !st.feasible {
		return false
	}
	res.feasible++
	next := []routeState{st}
	if !s.improves([]routeState{s.states[v]}, next) {
		return false
	}
	res.mv = &move{kind: kind, va: v, vb: -1, segsA: segs, next: next}
	return true
}

func (s *search) tryTwo(res *scanResult, kind MoveKind, a, b int, segsA, segsB []seg) bool {
	stA := s.eval(a, segsA...)
	if !stA.feasible {
		return false
	}
	stB := s.eval(b, segsB...)
	if !stB.feasible {
		return false
	}
	res.feasible++
	next := []routeState{stA, stB}
	if !s.improves([]routeState{s.states[a], s.states[b]}, next) {
		return false
	}
	res.mv = &move{kind: kind, va: a, vb: b, segsA: segsA, segsB: segsB, next: next}
	return true
}

func (s *search) scanRelocateIntra(ctx context.Context, v int) (scanResult, error) {
	var res scanResult
	tk := ticker{s: s}
	r := s.routes[v]
	n := len(r)

	for l := 1; l <= maxSegment && l < n; l++ {
		for i := 0; i+l <= n; i++ {
			piece := r[i : i+l]
			// j is the insertion point in the route without the segment.
			for j := 0; j <= n-l; j++ {
				if j == i {
					continue
				}
				if err := tk.tick(ctx); err != nil {
					return res, err
				}
				var segs []seg
				if j < i {
					segs = []seg{fwd(r[:j]), fwd(piece), fwd(r[j:i]), fwd(r[i+l:])}
				} else {
					segs = []seg{fwd(r[:i]), fwd(r[i+l : j+l]), fwd(piece), fwd(r[j+l:])}
				}
				if s.tryOne(&res, MoveRelocate, v, segs) {
					return res, nil
				}
			}
		}
	}
	return res, nil
}

func (s *search) scanRelocateInter(ctx context.Context, a, b int) (scanResult, error) {
	var res scanResult
	tk := ticker{s: s}
	ra, rb := s.routes[a], s.routes[b]
	spare := s.g.vehicles[b].capacity - s.states[b].load

	for l := 1; l <= maxSegment && l <= len(ra); l++ {
		for i := 0; i+l <= len(ra); i++ {
			piece := ra[i : i+l]
			var demand int64
			for _, n := range piece {
				demand = addSat(demand, s.g.nodes[n].demand)
			}
			if demand > spare {
				continue
			}
			segsA := []seg{fwd(ra[:i]), fwd(ra[i+l:])}
			for j := 0; j <= len(rb); j++ {
				if err := tk.tick(ctx); err != nil {
					return res, err
				}
				segsB := []seg{fwd(rb[:j]), fwd(piece), fwd(rb[j:])}
				if s.tryTwo(&res, MoveRelocate, a, b, segsA, segsB) {
					return res, nil
				}
			}
		}
	}
	return res, nil
}

func (s *search) scanExchangeIntra(ctx context.Context, v int) (scanResult, error) {
	var res scanResult
	tk := ticker{s: s}
	r := s.routes[v]

	for i := 0; i < len(r); i++ {
		for j := i + 1; j < len(r); j++ {
			if err := tk.tick(ctx); err != nil {
				return res, err
			}
			segs := []seg{fwd(r[:i]), fwd(r[j : j+1]), fwd(r[i+1 : j]), fwd(r[i : i+1]), fwd(r[j+1:])}
			if s.tryOne(&res, MoveExchange, v, segs) {
				return res, nil
			}
		}
	}
	return res, nil
}

func (s *search) scanExchangeInter(ctx context.Context, a, b int) (scanResult, error) {
	var res scanResult
	tk := ticker{s: s}
	ra, rb := s.routes[a], s.routes[b]
	spareA := s.g.vehicles[a].capacity - s.states[a].load
	spareB := s.g.vehicles[b].capacity - s.states[b].load

	for i := 0; i < len(ra); i++ {
		di := s.g.nodes[ra[i]].demand
		for j := 0; j < len(rb); j++ {
			dj := s.g.nodes[rb[j]].demand
			if dj-di > spareA || di-dj > spareB {
				continue
			}
			if err := tk.tick(ctx); err != nil {
				return res, err
			}
			segsA := []seg{fwd(ra[:i]), fwd(rb[j : j+1]), fwd(ra[i+1:])}
			segsB := []seg{fwd(rb[:j]), fwd(ra[i : i+1]), fwd(rb[j+1:])}
			if s.tryTwo(&res, MoveExchange, a, b, segsA, segsB) {
				return res, nil
			}
		}
	}
	return res, nil
}

func (s *search) scanTwoOpt(ctx context.Context, v int) (scanResult, error) {
	var res scanResult
	tk := ticker{s: s}
	r := s.routes[v]

	for i := 0; i < len(r); i++ {
		for j := i + 1; j < len(r); j++ {
			if err := tk.tick(ctx); err != nil {
				return res, err
			}
			segs := []seg{fwd(r[:i]), {nodes: r[i : j+1], rev: true}, fwd(r[j+1:])}
			if s.tryOne(&res, MoveTwoOpt, v, segs) {
				return res, nil
			}
		}
	}
	return res, nil
}

func (s *search) scanCross(ctx context.Context, a, b int) (scanResult, error) {
	var res scanResult
	tk := ticker{s: s}
	ra, rb := s.routes[a], s.routes[b]

	for i := 0; i <= len(ra); i++ {
		for j := 0; j <= len(rb); j++ {
			if i == len(ra) && j == len(rb) {
				continue
			}
			if err := tk.tick(ctx); err != nil {
				return res, err
			}
			segsA := []seg{fwd(ra[:i]), fwd(rb[j:])}
			segsB := []seg{fwd(rb[:j]), fwd(ra[i:])}
			if s.tryTwo(&res, MoveCross, a, b, segsA, segsB) {
				return res, nil
			}
		}
	}
	return res, nil
}

// apply commits mv. Both new routes are materialized before either is
// replaced because their segments may alias the current routes.
func (s *search) apply(mv *move) {
	ra := concat(mv.segsA...)
	if mv.vb < 0 {
		s.routes[mv.va] = ra
		s.states[mv.va] = mv.next[0]
		return
	}
	rb := concat(mv.segsB...)
	s.routes[mv.va], s.routes[mv.vb] = ra, rb
	s.states[mv.va], s.states[mv.vb] = mv.next[0], mv.next[1]
}

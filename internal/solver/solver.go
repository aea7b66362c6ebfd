// Package solver is the routing optimization engine: it normalizes a problem
// into a routing graph and constraint set, builds a first feasible assignment
// with a path-cheapest-arc heuristic, improves it with guided local search
// under a wall-clock budget and extracts the per-vehicle job sequences.
//
// A solve owns all of its state; concurrent solves share nothing. Results are
// reproducible for a fixed IterationLimit, but a solve that stops on its time
// budget depends on machine speed and is not reproducible in general.
package solver

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"vehicle-routing-service/internal/domain"
)

const (
	DefaultTimeLimit     = time.Second
	DefaultPenaltyFactor = 0.1
)

// Options controls the search.
type Options struct {
	// TimeLimit is the wall-clock budget of the whole solve.
	TimeLimit time.Duration
	// Workers is the number of goroutines evaluating candidate moves.
	// Accepting a move is always serialized.
	Workers int
	// PenaltyFactor scales the guided local search penalty weight relative
	// to the average arc cost of the first local optimum.
	PenaltyFactor float64
	// IterationLimit stops the search after that many improvement steps. 0 means none.
	IterationLimit int
	// Tracer observes the search. Nil disables tracing.
	Tracer Tracer
}

// DefaultOptions returns the options used when a caller sets nothing.
func DefaultOptions() Options {
	return Options{
		TimeLimit:     DefaultTimeLimit,
		Workers:       1,
		PenaltyFactor: DefaultPenaltyFactor,
	}
}

func (o Options) withDefaults() Options {
	if o.TimeLimit <= 0 {
		o.TimeLimit = DefaultTimeLimit
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Workers > runtime.GOMAXPROCS(0)*4 {
		o.Workers = runtime.GOMAXPROCS(0) * 4
	}
	if o.PenaltyFactor <= 0 {
		o.PenaltyFactor = DefaultPenaltyFactor
	}
	if o.IterationLimit < 0 {
		o.IterationLimit = 0
	}
	if o.Tracer == nil {
		o.Tracer = nopTracer
	}
	return o
}

// StopReason tells why the improvement phase ended.
type StopReason string

const (
	StopDeadline       StopReason = "deadline"
	StopConverged      StopReason = "converged"
	StopIterationLimit StopReason = "iteration_limit"
)

// Stats describes one solve.
type Stats struct {
	InitialCost int64
	BestCost    int64
	Iterations  int
	LocalOptima int
	Moves       map[MoveKind]int
	Elapsed     time.Duration
	StopReason  StopReason
}

// Result is a solution together with the statistics of the search that produced it.
type Result struct {
	Solution *domain.Solution
	Stats    Stats
}

// Solve normalizes p and solves it. It fails with an error matching
// domain.ErrMalformedProblem or domain.ErrInfeasible; it never returns a
// partial solution.
func Solve(p *domain.Problem, opts Options) (*Result, error) {
	m, err := Normalize(p)
	if err != nil {
		return nil, err
	}
	return m.Solve(opts)
}

// Solve runs construction and guided local search on the model.
func (m *Model) Solve(opts Options) (*Result, error) {
	opts = opts.withDefaults()
	s := newSearch(m, opts)

	if err := s.construct(); err != nil {
		return nil, err
	}
	s.improve()

	best := s.bestAssignment()
	if err := m.Check(best); err != nil {
		return nil, fmt.Errorf("solve: best assignment failed verification: %w", err)
	}

	s.stats.Elapsed = time.Since(s.began)
	return &Result{Solution: m.Extract(best), Stats: s.stats}, nil
}

var errDeadline = errors.New("solver: time budget exhausted")

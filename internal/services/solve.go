package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"vehicle-routing-service/internal/domain"
	"vehicle-routing-service/internal/platform/metrics"
	"vehicle-routing-service/internal/platform/obs"
	"vehicle-routing-service/internal/ports"
	"vehicle-routing-service/internal/solver"

	"github.com/google/uuid"
)

// ErrTimeout is returned when the caller's context ends before the solve does.
var ErrTimeout = errors.New("solve timed out")

// RoutingService runs solves and records their metrics.
type RoutingService struct {
	Options    solver.Options
	Runs       ports.RunRepository
	Publishers []ports.EventPublisher
}

// SolveResult is a solution along with the id of the run that produced it.
type SolveResult struct {
	RunID    string
	Solution *domain.Solution
	Stats    solver.Stats
}

type solveOutcome struct {
	res *solver.Result
	err error
}

// SolveVehicleRoutingProblem solves p with the service options.
//
// Every search event goes to the configured publishers and to extra, if not
// nil. The solve runs on its own goroutine so that a caller deadline is
// honored even though the search only watches its own time budget; a solve
// abandoned that way still stops on that budget.
func (s *RoutingService) SolveVehicleRoutingProblem(
	ctx context.Context,
	p *domain.Problem,
	extra solver.Tracer,
) (_ *SolveResult, err error) {
	runID := uuid.NewString()
	ctx = context.WithValue(ctx, obs.RunIDKey, runID)
	defer obs.Time(ctx, "services.SolveVehicleRoutingProblem")(&err)

	opts := s.Options
	opts.Tracer = s.tracer(runID, extra)

	began := time.Now()
	done := make(chan solveOutcome, 1)
	go func() {
		res, err := solver.Solve(p, opts)
		done <- solveOutcome{res: res, err: err}
	}()

	var out solveOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = solveOutcome{err: fmt.Errorf("solve vehicle routing problem: %w: %w", ErrTimeout, ctx.Err())}
	}

	s.record(ctx, runID, p, out, time.Since(began))

	if out.err != nil {
		if errors.Is(out.err, ErrTimeout) {
			return nil, out.err
		}
		return nil, fmt.Errorf("solve vehicle routing problem: %w", out.err)
	}

	return &SolveResult{RunID: runID, Solution: out.res.Solution, Stats: out.res.Stats}, nil
}

// ListRuns returns the most recent solve runs, newest first.
func (s *RoutingService) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.Runs == nil {
		return []domain.Run{}, nil
	}
	runs, err := s.Runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *RoutingService) tracer(runID string, extra solver.Tracer) solver.Tracer {
	tracers := make(solver.MultiTracer, 0, len(s.Publishers)+1)
	for _, pub := range s.Publishers {
		if pub == nil {
			continue
		}
		tracers = append(tracers, solver.TracerFunc(func(e solver.Event) { pub.Publish(runID, e) }))
	}
	if extra != nil {
		tracers = append(tracers, extra)
	}
	return tracers
}

func outcomeOf(err error) domain.Outcome {
	switch {
	case err == nil:
		return domain.OutcomeSolved
	case errors.Is(err, domain.ErrMalformedProblem):
		return domain.OutcomeMalformed
	case errors.Is(err, domain.ErrInfeasible):
		return domain.OutcomeInfeasible
	case errors.Is(err, ErrTimeout):
		return domain.OutcomeTimeout
	}
	return domain.OutcomeFailed
}

// record stores the run metrics. Storage failures are logged, never returned:
// the caller's solution does not depend on them.
func (s *RoutingService) record(ctx context.Context, runID string, p *domain.Problem, out solveOutcome, elapsed time.Duration) {
	outcome := outcomeOf(out.err)
	metrics.Solves.WithLabelValues(string(outcome)).Inc()
	metrics.SolveDuration.Observe(elapsed.Seconds())

	if s.Runs == nil {
		return
	}

	run := domain.Run{
		ID:        runID,
		ElapsedMs: elapsed.Milliseconds(),
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
	if p != nil {
		run.Vehicles = len(p.Vehicles)
		run.Jobs = len(p.Jobs)
	}
	if out.res != nil {
		st := out.res.Stats
		run.InitialCost = st.InitialCost
		run.BestCost = st.BestCost
		run.Iterations = st.Iterations
		run.LocalOptima = st.LocalOptima
		run.StopReason = string(st.StopReason)
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.Runs.SaveRun(saveCtx, run); err != nil {
		log.Printf("run_id=%s op=record run failed: %v", runID, err)
	}
}

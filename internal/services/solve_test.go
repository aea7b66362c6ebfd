package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"vehicle-routing-service/internal/adapters/repositories"
	"vehicle-routing-service/internal/domain"
	"vehicle-routing-service/internal/ports"
	"vehicle-routing-service/internal/solver"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	runIDs map[string]int
	kinds  []solver.EventKind
}

func (p *recordingPublisher) Publish(runID string, e solver.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runIDs == nil {
		p.runIDs = map[string]int{}
	}
	p.runIDs[runID]++
	p.kinds = append(p.kinds, e.Kind)
}

func smallProblem() *domain.Problem {
	return &domain.Problem{
		Vehicles: []domain.Vehicle{
			{ID: "v1", StartIndex: 0, Capacity: []int64{8}},
			{ID: "v2", StartIndex: 0, Capacity: []int64{8}},
		},
		Jobs: []domain.Job{
			{ID: "j1", LocationIndex: 1, Delivery: []int64{4}},
			{ID: "j2", LocationIndex: 2, Delivery: []int64{4}},
			{ID: "j3", LocationIndex: 3, Delivery: []int64{4}},
		},
		Matrix: [][]int64{
			{0, 2, 4, 6},
			{2, 0, 2, 4},
			{4, 2, 0, 2},
			{6, 4, 2, 0},
		},
	}
}

func TestSolveVehicleRoutingProblem_RecordsRunAndPublishes(t *testing.T) {
	runs := repositories.NewMemoryRunRepository(10)
	pub := &recordingPublisher{}
	svc := &RoutingService{
		Options:    solver.Options{TimeLimit: 10 * time.Second, IterationLimit: 30},
		Runs:       runs,
		Publishers: []ports.EventPublisher{pub, nil},
	}

	var extra []solver.EventKind
	res, err := svc.SolveVehicleRoutingProblem(context.Background(), smallProblem(), solver.TracerFunc(func(e solver.Event) {
		extra = append(extra, e.Kind)
	}))
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	var routed int
	for _, r := range res.Solution.Routes {
		routed += len(r.Jobs)
	}
	require.Equal(t, 3, routed)

	require.Equal(t, map[string]int{res.RunID: len(pub.kinds)}, pub.runIDs)
	require.Equal(t, pub.kinds, extra)
	require.Equal(t, solver.EventRouteConstructed, extra[0])

	list, err := svc.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, res.RunID, list[0].ID)
	require.Equal(t, domain.OutcomeSolved, list[0].Outcome)
	require.Equal(t, 2, list[0].Vehicles)
	require.Equal(t, 3, list[0].Jobs)
	require.Equal(t, res.Stats.BestCost, list[0].BestCost)
	require.Equal(t, string(res.Stats.StopReason), list[0].StopReason)
}

func TestSolveVehicleRoutingProblem_ClassifiesFailures(t *testing.T) {
	runs := repositories.NewMemoryRunRepository(10)
	svc := &RoutingService{Options: solver.Options{TimeLimit: time.Second}, Runs: runs}

	malformed := smallProblem()
	malformed.Jobs[0].LocationIndex = 4
	_, err := svc.SolveVehicleRoutingProblem(context.Background(), malformed, nil)
	require.ErrorIs(t, err, domain.ErrMalformedProblem)

	infeasible := smallProblem()
	infeasible.Jobs[0].Delivery = []int64{9}
	_, err = svc.SolveVehicleRoutingProblem(context.Background(), infeasible, nil)
	require.ErrorIs(t, err, domain.ErrInfeasible)

	list, err := svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	outcomes := []domain.Outcome{list[0].Outcome, list[1].Outcome}
	require.ElementsMatch(t, []domain.Outcome{domain.OutcomeMalformed, domain.OutcomeInfeasible}, outcomes)
}

func TestSolveVehicleRoutingProblem_HonorsCallerDeadline(t *testing.T) {
	p := &domain.Problem{Vehicles: []domain.Vehicle{{ID: "v", StartIndex: 0, Capacity: []int64{1000}}}}
	n := 60
	p.Matrix = make([][]int64, n)
	for i := range p.Matrix {
		p.Matrix[i] = make([]int64, n)
		for j := range p.Matrix[i] {
			p.Matrix[i][j] = int64((i*7+j*13)%50 + 1)
			if i == j {
				p.Matrix[i][j] = 0
			}
		}
	}
	for j := 1; j < n; j++ {
		p.Jobs = append(p.Jobs, domain.Job{ID: domain.ID(fmt.Sprintf("job-%d", j)), LocationIndex: j, Delivery: []int64{1}})
	}

	runs := repositories.NewMemoryRunRepository(10)
	svc := &RoutingService{Options: solver.Options{TimeLimit: 3 * time.Second}, Runs: runs}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	began := time.Now()
	_, err := svc.SolveVehicleRoutingProblem(ctx, p, nil)
	require.ErrorIs(t, err, ErrTimeout)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Less(t, time.Since(began), time.Second)

	list, err := svc.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeTimeout, list[0].Outcome)
}

func TestListRuns_WithoutRepository(t *testing.T) {
	svc := &RoutingService{}
	runs, err := svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, runs)
}

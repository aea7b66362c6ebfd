package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vehicle-routing-service/internal/domain"
)

type recorder struct{ events []Event }

func (r *recorder) Trace(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func TestTracer_SingleJobConvergesImmediately(t *testing.T) {
	p := &domain.Problem{
		Vehicles: []domain.Vehicle{{ID: "v1", StartIndex: 0, Capacity: []int64{10}}},
		Jobs:     []domain.Job{{ID: "j1", LocationIndex: 1, Delivery: []int64{1}}},
		Matrix:   threeByThree(),
	}

	rec := &recorder{}
	opts := testOptions(0)
	opts.Tracer = rec

	res, err := Solve(p, opts)
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventRouteConstructed, EventConverged}, rec.kinds())

	built := rec.events[0]
	require.Equal(t, domain.ID("v1"), built.Vehicle)
	require.Equal(t, []domain.ID{"j1"}, built.Jobs)
	require.Equal(t, int64(1), built.Cost)

	require.Equal(t, StopConverged, res.Stats.StopReason)
	require.Equal(t, 1, res.Stats.LocalOptima)
	require.Equal(t, 1, res.Stats.Iterations)
}

func TestTracer_ReportsMovesAndLocalOptima(t *testing.T) {
	p := randomProblem(3, 2, 10, false)

	rec := &recorder{}
	multi := MultiTracer{nil, rec}
	opts := testOptions(60)
	opts.Tracer = multi

	res, err := Solve(p, opts)
	require.NoError(t, err)

	kinds := rec.kinds()
	require.Equal(t, EventRouteConstructed, kinds[0])
	require.Equal(t, EventRouteConstructed, kinds[1])

	var accepted, optima, bests int
	for _, e := range rec.events {
		switch e.Kind {
		case EventMoveAccepted:
			accepted++
			require.Contains(t, MoveKinds, e.Move)
		case EventLocalOptimum:
			optima++
			require.Positive(t, e.Penalized)
		case EventNewBest:
			bests++
			require.Equal(t, e.Cost, e.BestCost)
		}
		require.LessOrEqual(t, e.BestCost, res.Stats.InitialCost)
	}

	moves := 0
	for _, n := range res.Stats.Moves {
		moves += n
	}
	require.Equal(t, moves, accepted)
	require.Equal(t, res.Stats.LocalOptima, optima)
	require.Equal(t, res.Stats.Iterations, accepted+optima)
	require.Equal(t, StopIterationLimit, res.Stats.StopReason)
	require.Positive(t, optima)
}

func TestSearch_PenalizeRaisesMaxUtilityArcs(t *testing.T) {
	p := &domain.Problem{
		Vehicles: []domain.Vehicle{{ID: "v1", StartIndex: 0, Capacity: []int64{10}}},
		Jobs: []domain.Job{
			{ID: "j1", LocationIndex: 1, Delivery: []int64{1}},
			{ID: "j2", LocationIndex: 2, Delivery: []int64{1}},
		},
		Matrix: [][]int64{
			{0, 1, 5},
			{1, 0, 3},
			{5, 3, 0},
		},
	}

	m, err := Normalize(p)
	require.NoError(t, err)
	s := newSearch(m, testOptions(0).withDefaults())
	require.NoError(t, s.construct())

	g := m.Graph
	j1, j2 := g.JobNode(0), g.JobNode(1)
	require.Equal(t, []int{j1, j2}, s.routes[0])

	nn := g.NumNodes()
	require.Equal(t, 1, s.penalize())
	require.Equal(t, int32(1), s.penalty[j1*nn+j2])

	// 1→2 now has utility 3/2 and 0→1 has 1, so the same arc is raised again.
	require.Equal(t, 1, s.penalize())
	require.Equal(t, int32(2), s.penalty[j1*nn+j2])
	require.Zero(t, s.penalty[g.Start(0)*nn+j1])
}

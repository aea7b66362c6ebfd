package solver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"vehicle-routing-service/internal/domain"
)

func threeByThree() [][]int64 {
	return [][]int64{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}
}

func TestNormalize_AugmentsMatrixWithSink(t *testing.T) {
	p := &domain.Problem{
		Vehicles: []domain.Vehicle{{ID: "v1", StartIndex: 0, Capacity: []int64{10}}},
		Jobs: []domain.Job{
			{ID: "a", LocationIndex: 1, Delivery: []int64{3}},
			{ID: "b", LocationIndex: 2, Delivery: []int64{4}},
		},
		Matrix: threeByThree(),
	}

	m, err := Normalize(p)
	require.NoError(t, err)

	aug := m.Graph.AugmentedMatrix()
	require.Len(t, aug, 4)
	for i, row := range aug {
		require.Len(t, row, 4)
		require.Zero(t, row[3], "row %d to sink", i)
	}
	require.Equal(t, []int64{0, 0, 0, 0}, aug[3])
	for i := 0; i < 3; i++ {
		require.Equal(t, p.Matrix[i], aug[i][:3])
	}

	g := m.Graph
	require.Equal(t, 4, g.NumNodes())
	require.Equal(t, 3, g.Sink())
	require.Equal(t, g.Sink(), g.End(0))
	require.Equal(t, 0, g.Start(0))
	require.Equal(t, int64(10), g.Capacity(0))
	require.Equal(t, int64(0), g.Demand(g.Start(0)))
	require.Equal(t, int64(3), g.Demand(g.JobNode(0)))
	require.Equal(t, int64(4), g.Demand(g.JobNode(1)))
	require.Equal(t, int64(0), g.Demand(g.Sink()))
	require.Equal(t, 2, g.Location(g.JobNode(1)))

	require.True(t, m.Constraints.Has(DimCapacity))
	require.False(t, m.Constraints.Has(DimTimeWindow))
	require.Equal(t, []Dimension{DimCapacity}, m.Constraints.Dimensions())
}

func TestNormalize_JobAtVehicleStartKeepsItsDemand(t *testing.T) {
	p := &domain.Problem{
		Vehicles: []domain.Vehicle{{ID: "v1", StartIndex: 1, Capacity: []int64{10}}},
		Jobs:     []domain.Job{{ID: "a", LocationIndex: 1, Delivery: []int64{7}}},
		Matrix:   threeByThree(),
	}

	m, err := Normalize(p)
	require.NoError(t, err)
	require.Equal(t, int64(0), m.Graph.Demand(m.Graph.Start(0)))
	require.Equal(t, int64(7), m.Graph.Demand(m.Graph.JobNode(0)))
	require.Equal(t, m.Graph.Location(m.Graph.Start(0)), m.Graph.Location(m.Graph.JobNode(0)))
}

func TestNormalize_IsIdempotent(t *testing.T) {
	p := &domain.Problem{
		Vehicles: []domain.Vehicle{
			{ID: "v1", StartIndex: 0, Capacity: []int64{10}},
			{ID: "v2", StartIndex: 2, Capacity: []int64{5, 99}},
		},
		Jobs: []domain.Job{
			{ID: "a", LocationIndex: 1, Delivery: []int64{3}},
			{ID: "b", LocationIndex: 1, Delivery: []int64{4, 1}},
		},
		Matrix:      threeByThree(),
		TimeWindows: []domain.TimeWindow{{Earliest: 0, Latest: 10}, {Earliest: 2, Latest: 8}, {Earliest: 0, Latest: 20}},
	}

	first, err := Normalize(p)
	require.NoError(t, err)
	second, err := Normalize(p)
	require.NoError(t, err)
	require.Equal(t, first, second)

	w, ok := first.Constraints.Window(first.Graph.JobNode(1))
	require.True(t, ok)
	require.Equal(t, domain.TimeWindow{Earliest: 2, Latest: 8}, w)
	w, _ = first.Constraints.Window(first.Graph.Start(1))
	require.Equal(t, domain.TimeWindow{Earliest: 0, Latest: 20}, w)
}

func TestNormalize_RejectsMalformedProblems(t *testing.T) {
	valid := func() *domain.Problem {
		return &domain.Problem{
			Vehicles: []domain.Vehicle{{ID: "v1", StartIndex: 0, Capacity: []int64{10}}},
			Jobs:     []domain.Job{{ID: "a", LocationIndex: 1, Delivery: []int64{3}}},
			Matrix:   threeByThree(),
		}
	}

	tests := []struct {
		name   string
		mutate func(p *domain.Problem)
		field  string
	}{
		{"empty matrix", func(p *domain.Problem) { p.Matrix = nil }, "matrix"},
		{"non-square matrix", func(p *domain.Problem) { p.Matrix[1] = []int64{1, 0} }, "matrix[1]"},
		{"negative duration", func(p *domain.Problem) { p.Matrix[2][0] = -1 }, "matrix[2][0]"},
		{"no vehicles", func(p *domain.Problem) { p.Vehicles = nil }, "vehicles"},
		{"vehicle start out of range", func(p *domain.Problem) { p.Vehicles[0].StartIndex = 3 }, "vehicles[0].start_index"},
		{"negative capacity", func(p *domain.Problem) { p.Vehicles[0].Capacity = []int64{-1} }, "vehicles[0].capacity"},
		{"missing capacity", func(p *domain.Problem) { p.Vehicles[0].Capacity = nil }, "vehicles[0].capacity"},
		{"empty vehicle id", func(p *domain.Problem) { p.Vehicles[0].ID = "" }, "vehicles[0].id"},
		{"duplicate vehicle id", func(p *domain.Problem) {
			p.Vehicles = append(p.Vehicles, domain.Vehicle{ID: "v1", StartIndex: 1, Capacity: []int64{1}})
		}, "vehicles[1].id"},
		{"job location equals matrix size", func(p *domain.Problem) { p.Jobs[0].LocationIndex = 3 }, "jobs[0].location_index"},
		{"negative job location", func(p *domain.Problem) { p.Jobs[0].LocationIndex = -1 }, "jobs[0].location_index"},
		{"negative demand", func(p *domain.Problem) { p.Jobs[0].Delivery = []int64{-2} }, "jobs[0].delivery"},
		{"duplicate job id", func(p *domain.Problem) {
			p.Jobs = append(p.Jobs, domain.Job{ID: "a", LocationIndex: 2, Delivery: []int64{1}})
		}, "jobs[1].id"},
		{"time windows per location", func(p *domain.Problem) {
			p.TimeWindows = []domain.TimeWindow{{Earliest: 0, Latest: 1}}
		}, "time_windows"},
		{"inverted time window", func(p *domain.Problem) {
			p.TimeWindows = []domain.TimeWindow{{Earliest: 0, Latest: 1}, {Earliest: 5, Latest: 4}, {Earliest: 0, Latest: 1}}
		}, "time_windows[1]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid()
			tc.mutate(p)

			_, err := Normalize(p)
			require.ErrorIs(t, err, domain.ErrMalformedProblem)
			require.False(t, errors.Is(err, domain.ErrInfeasible))

			var perr *domain.ProblemError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tc.field, perr.Field)
		})
	}
}

package solver

import (
	"fmt"

	"vehicle-routing-service/internal/domain"
)

// Normalize validates p and builds the routing graph and constraint set.
//
// The n×n matrix is augmented with one zero row and one zero column; index n
// is the virtual sink every vehicle ends at, so routes never need to return
// to their origin. Each vehicle gets its own start anchor and each job its
// own visit node, both pointing at a real location. Normalization has no
// hidden randomness: the same input always yields the same model.
func Normalize(p *domain.Problem) (*Model, error) {
	if p == nil {
		return nil, domain.Malformed("problem", "must not be nil")
	}

	n, err := validateMatrix(p.Matrix)
	if err != nil {
		return nil, err
	}
	if err := validateVehicles(p.Vehicles, n); err != nil {
		return nil, err
	}
	if err := validateJobs(p.Jobs, n); err != nil {
		return nil, err
	}
	if err := validateTimeWindows(p.TimeWindows, n); err != nil {
		return nil, err
	}

	order := n + 1
	g := &Graph{
		order:      order,
		matrix:     make([]int64, order*order),
		nodes:      make([]node, 0, len(p.Vehicles)+len(p.Jobs)+1),
		vehicles:   make([]vehicle, 0, len(p.Vehicles)),
		jobNodes:   make([]int, 0, len(p.Jobs)),
		vehicleIDs: make([]domain.ID, 0, len(p.Vehicles)),
		jobIDs:     make([]domain.ID, 0, len(p.Jobs)),
	}
	for i, row := range p.Matrix {
		copy(g.matrix[i*order:i*order+n], row)
	}

	// Start anchors carry no demand even when a job shares their location;
	// that job keeps its demand on its own visit node.
	for i, v := range p.Vehicles {
		g.nodes = append(g.nodes, node{kind: kindStart, location: v.StartIndex, ref: i})
		g.vehicleIDs = append(g.vehicleIDs, v.ID)
	}
	for j, job := range p.Jobs {
		g.jobNodes = append(g.jobNodes, len(g.nodes))
		g.nodes = append(g.nodes, node{kind: kindJob, location: job.LocationIndex, demand: job.Delivery[0], ref: j})
		g.jobIDs = append(g.jobIDs, job.ID)
	}
	g.sink = len(g.nodes)
	g.nodes = append(g.nodes, node{kind: kindSink, location: n, ref: -1})

	for i, v := range p.Vehicles {
		g.vehicles = append(g.vehicles, vehicle{start: i, end: g.sink, capacity: v.Capacity[0]})
	}

	cs := ConstraintSet{dims: DimCapacity}
	if p.HasTimeWindows() {
		cs.dims |= DimTimeWindow
		cs.windows = make([]domain.TimeWindow, len(g.nodes))
		for i, nd := range g.nodes {
			if nd.kind == kindSink {
				cs.windows[i] = unbounded
				continue
			}
			cs.windows[i] = p.TimeWindows[nd.location]
		}
	}

	return &Model{Graph: g, Constraints: cs}, nil
}

func validateMatrix(matrix [][]int64) (int, error) {
	n := len(matrix)
	if n == 0 {
		return 0, domain.Malformed("matrix", "must not be empty")
	}
	for i, row := range matrix {
		if len(row) != n {
			return 0, domain.Malformed(fmt.Sprintf("matrix[%d]", i), "has %d columns, want %d (matrix must be square)", len(row), n)
		}
		for j, d := range row {
			if d < 0 {
				return 0, domain.Malformed(fmt.Sprintf("matrix[%d][%d]", i, j), "duration %d must not be negative", d)
			}
		}
	}
	return n, nil
}

func validateVehicles(vehicles []domain.Vehicle, n int) error {
	if len(vehicles) == 0 {
		return domain.Malformed("vehicles", "at least one vehicle is required")
	}

	seen := make(map[domain.ID]struct{}, len(vehicles))
	for i, v := range vehicles {
		field := fmt.Sprintf("vehicles[%d]", i)
		if v.ID == "" {
			return domain.Malformed(field+".id", "must not be empty")
		}
		if _, ok := seen[v.ID]; ok {
			return domain.Malformed(field+".id", "duplicate vehicle id %q", v.ID)
		}
		seen[v.ID] = struct{}{}

		if v.StartIndex < 0 || v.StartIndex >= n {
			return domain.Malformed(field+".start_index", "%d is outside [0, %d)", v.StartIndex, n)
		}
		if len(v.Capacity) == 0 {
			return domain.Malformed(field+".capacity", "must have at least one entry")
		}
		if v.Capacity[0] < 0 {
			return domain.Malformed(field+".capacity", "%d must not be negative", v.Capacity[0])
		}
	}
	return nil
}

func validateJobs(jobs []domain.Job, n int) error {
	seen := make(map[domain.ID]struct{}, len(jobs))
	for i, j := range jobs {
		field := fmt.Sprintf("jobs[%d]", i)
		if j.ID == "" {
			return domain.Malformed(field+".id", "must not be empty")
		}
		if _, ok := seen[j.ID]; ok {
			return domain.Malformed(field+".id", "duplicate job id %q", j.ID)
		}
		seen[j.ID] = struct{}{}

		if j.LocationIndex < 0 || j.LocationIndex >= n {
			return domain.Malformed(field+".location_index", "%d is outside [0, %d)", j.LocationIndex, n)
		}
		if len(j.Delivery) == 0 {
			return domain.Malformed(field+".delivery", "must have at least one entry")
		}
		if j.Delivery[0] < 0 {
			return domain.Malformed(field+".delivery", "%d must not be negative", j.Delivery[0])
		}
	}
	return nil
}

func validateTimeWindows(windows []domain.TimeWindow, n int) error {
	if windows == nil {
		return nil
	}
	if len(windows) != n {
		return domain.Malformed("time_windows", "has %d entries, want one per location (%d)", len(windows), n)
	}
	for i, w := range windows {
		field := fmt.Sprintf("time_windows[%d]", i)
		if w.Earliest < 0 {
			return domain.Malformed(field, "earliest %d must not be negative", w.Earliest)
		}
		if w.Earliest > w.Latest {
			return domain.Malformed(field, "earliest %d is after latest %d", w.Earliest, w.Latest)
		}
	}
	return nil
}

package dto

import (
	"fmt"
	"vehicle-routing-service/internal/domain"
)

type VehicleRequest struct {
	ID         domain.ID `json:"id"`
	StartIndex *int      `json:"start_index"`
	Capacity   []int64   `json:"capacity"`
}

type JobRequest struct {
	ID            domain.ID `json:"id"`
	LocationIndex *int      `json:"location_index"`
	Delivery      []int64   `json:"delivery"`
}

// SolveRequest is the body of a solve call. TimeWindows is optional and, when
// present, holds one [earliest, latest] pair per matrix location.
type SolveRequest struct {
	Vehicles    []VehicleRequest `json:"vehicles"`
	Jobs        []JobRequest     `json:"jobs"`
	Matrix      [][]int64        `json:"matrix"`
	TimeWindows [][]int64        `json:"time_windows,omitempty"`
}

// ToProblem checks the fields a JSON body can omit and converts the request.
// Range and consistency checks are left to the solver.
func (r SolveRequest) ToProblem() (*domain.Problem, error) {
	p := &domain.Problem{
		Vehicles: make([]domain.Vehicle, 0, len(r.Vehicles)),
		Jobs:     make([]domain.Job, 0, len(r.Jobs)),
		Matrix:   r.Matrix,
	}

	for i, v := range r.Vehicles {
		if v.StartIndex == nil {
			return nil, domain.Malformed(fmt.Sprintf("vehicles[%d].start_index", i), "is required")
		}
		p.Vehicles = append(p.Vehicles, domain.Vehicle{ID: v.ID, StartIndex: *v.StartIndex, Capacity: v.Capacity})
	}

	for i, j := range r.Jobs {
		if j.LocationIndex == nil {
			return nil, domain.Malformed(fmt.Sprintf("jobs[%d].location_index", i), "is required")
		}
		p.Jobs = append(p.Jobs, domain.Job{ID: j.ID, LocationIndex: *j.LocationIndex, Delivery: j.Delivery})
	}

	if r.TimeWindows != nil {
		p.TimeWindows = make([]domain.TimeWindow, 0, len(r.TimeWindows))
		for i, w := range r.TimeWindows {
			if len(w) != 2 {
				return nil, domain.Malformed(fmt.Sprintf("time_windows[%d]", i), "must be an [earliest, latest] pair")
			}
			p.TimeWindows = append(p.TimeWindows, domain.TimeWindow{Earliest: w[0], Latest: w[1]})
		}
	}

	return p, nil
}

type RouteResponse struct {
	Jobs             []domain.ID `json:"jobs"`
	DeliveryDuration int64       `json:"delivery_duration"`
	StartTime        *int64      `json:"start_time,omitempty"`
	EndTime          *int64      `json:"end_time,omitempty"`
}

type SolveResponse struct {
	TotalDeliveryDuration int64                    `json:"total_delivery_duration"`
	Routes                map[string]RouteResponse `json:"routes"`
}

func NewSolveResponse(sol *domain.Solution) SolveResponse {
	res := SolveResponse{
		TotalDeliveryDuration: sol.TotalDeliveryDuration,
		Routes:                make(map[string]RouteResponse, len(sol.Routes)),
	}
	for _, r := range sol.Routes {
		jobs := r.Jobs
		if jobs == nil {
			jobs = []domain.ID{}
		}
		res.Routes[r.VehicleID.String()] = RouteResponse{
			Jobs:             jobs,
			DeliveryDuration: r.DeliveryDuration,
			StartTime:        r.StartTime,
			EndTime:          r.EndTime,
		}
	}
	return res
}

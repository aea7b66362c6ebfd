package domain

// Route is the planned visit sequence of a single vehicle.
// StartTime and EndTime are the elapsed-time values at the vehicle's start
// anchor and at the route end; they are set only when time windows are enabled.
type Route struct {
	VehicleID        ID
	Jobs             []ID
	DeliveryDuration int64
	StartTime        *int64
	EndTime          *int64
}

// Solution is the output of a solve. Routes has one entry per input vehicle,
// in input order, even when a vehicle visits no jobs.
type Solution struct {
	TotalDeliveryDuration int64
	Routes                []Route
}

// Route returns the route of the given vehicle.
func (s *Solution) Route(id ID) (Route, bool) {
	for _, r := range s.Routes {
		if r.VehicleID == id {
			return r, true
		}
	}
	return Route{}, false
}

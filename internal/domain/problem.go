package domain

// Vehicle is a capacity-limited vehicle that departs from a real location.
// Only the first capacity entry is consulted (single-commodity model).
type Vehicle struct {
	ID         ID
	StartIndex int
	Capacity   []int64
}

// Job is a single delivery with a demand at a real location.
// Only the first delivery entry is consulted.
type Job struct {
	ID            ID
	LocationIndex int
	Delivery      []int64
}

// TimeWindow is the allowed arrival interval [Earliest, Latest] at a location.
type TimeWindow struct {
	Earliest int64
	Latest   int64
}

// Problem is the normalized problem description handed to the solver.
// Matrix is square and sized to the number of real locations.
// TimeWindows is optional; when set it holds one window per real location.
type Problem struct {
	Vehicles    []Vehicle
	Jobs        []Job
	Matrix      [][]int64
	TimeWindows []TimeWindow
}

// HasTimeWindows reports whether the caller supplied time windows.
func (p *Problem) HasTimeWindows() bool { return p.TimeWindows != nil }

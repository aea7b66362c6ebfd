package domain

import "time"

// Outcome is how a solve ended.
type Outcome string

const (
	OutcomeSolved     Outcome = "solved"
	OutcomeMalformed  Outcome = "malformed"
	OutcomeInfeasible Outcome = "infeasible"
	OutcomeTimeout    Outcome = "timeout"
	OutcomeFailed     Outcome = "failed"
)

// Run is the metrics record kept for one solve. It never carries the problem
// or the solution itself.
type Run struct {
	ID          string
	Vehicles    int
	Jobs        int
	InitialCost int64
	BestCost    int64
	Iterations  int
	LocalOptima int
	StopReason  string
	ElapsedMs   int64
	Outcome     Outcome
	CreatedAt   time.Time
}

package dto

import "time"

type RunResponse struct {
	ID          string    `json:"id"`
	Vehicles    int       `json:"vehicles"`
	Jobs        int       `json:"jobs"`
	InitialCost int64     `json:"initial_cost"`
	BestCost    int64     `json:"best_cost"`
	Iterations  int       `json:"iterations"`
	LocalOptima int       `json:"local_optima"`
	StopReason  string    `json:"stop_reason,omitempty"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	Outcome     string    `json:"outcome"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

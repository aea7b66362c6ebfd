package ports

import (
	"context"
	"vehicle-routing-service/internal/domain"
)

// Port: a boundary for persisting solver run metrics.
type RunRepository interface {
	// Store the metrics of a finished solve.
	SaveRun(ctx context.Context, run domain.Run) error
	// Return the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

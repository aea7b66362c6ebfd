package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vehicle-routing-service/internal/domain"
	"vehicle-routing-service/internal/platform/obs"
)

// Postgres-backed implementation of the RunRepository port.
type PostgresRunRepository struct{ DB *sql.DB }

func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{DB: db}
}

func (p *PostgresRunRepository) SaveRun(ctx context.Context, run domain.Run) (err error) {
	defer obs.Time(ctx, "runs.postgres.SaveRun")(&err)

	if p.DB == nil {
		return errors.New("postgres run repository: DB is nil")
	}

	query := `
	INSERT INTO solve_runs (
		id,
		vehicles,
		jobs,
		initial_cost,
		best_cost,
		iterations,
		local_optima,
		stop_reason,
		elapsed_ms,
		outcome,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO NOTHING;
	`
	_, err = p.DB.ExecContext(ctx, query,
		run.ID,
		run.Vehicles,
		run.Jobs,
		run.InitialCost,
		run.BestCost,
		run.Iterations,
		run.LocalOptima,
		run.StopReason,
		run.ElapsedMs,
		string(run.Outcome),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save run: insert id=%s: %w", run.ID, err)
	}

	return nil
}

func (p *PostgresRunRepository) ListRuns(ctx context.Context, limit int) (_ []domain.Run, err error) {
	defer obs.Time(ctx, "runs.postgres.ListRuns")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres run repository: DB is nil")
	}

	query := `
	SELECT
		id,
		vehicles,
		jobs,
		initial_cost,
		best_cost,
		iterations,
		local_optima,
		stop_reason,
		elapsed_ms,
		outcome,
		created_at
	FROM solve_runs
	ORDER BY created_at DESC, id
	LIMIT $1;
	`
	rows, err := p.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query solve_runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.Run, 0, limit)
	for rows.Next() {
		var r domain.Run
		var outcome string
		err := rows.Scan(
			&r.ID,
			&r.Vehicles,
			&r.Jobs,
			&r.InitialCost,
			&r.BestCost,
			&r.Iterations,
			&r.LocalOptima,
			&r.StopReason,
			&r.ElapsedMs,
			&outcome,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		r.Outcome = domain.Outcome(outcome)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}

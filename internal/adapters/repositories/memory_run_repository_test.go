package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"
	"vehicle-routing-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestMemoryRunRepository_ListsNewestFirst(t *testing.T) {
	repo := NewMemoryRunRepository(3)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		run := domain.Run{
			ID:        fmt.Sprintf("run-%d", i),
			Outcome:   domain.OutcomeSolved,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.SaveRun(ctx, run))
	}
	// Saving an id twice keeps the first record.
	require.NoError(t, repo.SaveRun(ctx, domain.Run{ID: "run-4", Outcome: domain.OutcomeFailed}))

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, "run-4", runs[0].ID)
	require.Equal(t, domain.OutcomeSolved, runs[0].Outcome)
	require.Equal(t, "run-2", runs[2].ID)

	runs, err = repo.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "run-4", runs[0].ID)
}

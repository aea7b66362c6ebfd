package repositories

import (
	"context"
	"sort"
	"sync"
	"vehicle-routing-service/internal/domain"
)

// MemoryRunRepository keeps the most recent runs in process memory. It is
// used when no DATABASE_URL is configured.
type MemoryRunRepository struct {
	mu   sync.Mutex
	max  int
	runs []domain.Run
}

// NewMemoryRunRepository keeps at most max runs; older runs are dropped first.
func NewMemoryRunRepository(max int) *MemoryRunRepository {
	if max <= 0 {
		max = 1000
	}
	return &MemoryRunRepository{max: max}
}

func (m *MemoryRunRepository) SaveRun(_ context.Context, run domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.runs {
		if r.ID == run.ID {
			return nil
		}
	}
	m.runs = append(m.runs, run)
	if len(m.runs) > m.max {
		m.runs = append([]domain.Run(nil), m.runs[len(m.runs)-m.max:]...)
	}
	return nil
}

func (m *MemoryRunRepository) ListRuns(_ context.Context, limit int) ([]domain.Run, error) {
	m.mu.Lock()
	out := append([]domain.Run(nil), m.runs...)
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

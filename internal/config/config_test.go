package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "DATABASE_URL", "REDIS_URL",
		"SOLVER_TIME_LIMIT", "SOLVER_WORKERS", "SOLVER_GLS_ALPHA", "SOLVER_MAX_ITERATIONS",
		"RATE_RPS", "RATE_BURST", "ALLOW_ORIGINS", "REQUEST_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
	require.Equal(t, time.Second, cfg.Solver.Options().TimeLimit)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
redis_url: redis://localhost:6379/0
solver:
  time_limit: 2s
  workers: 3
  max_iterations: 500
allow_origins: ["https://a.example", "https://b.example"]
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SOLVER_WORKERS", "4")
	t.Setenv("ALLOW_ORIGINS", "https://c.example, https://d.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, 2*time.Second, cfg.Solver.TimeLimit)
	require.Equal(t, 4, cfg.Solver.Workers)
	require.Equal(t, 500, cfg.Solver.MaxIterations)
	require.Equal(t, []string{"https://c.example", "https://d.example"}, cfg.AllowOrigins)

	opts := cfg.Solver.Options()
	require.Equal(t, 4, opts.Workers)
	require.Equal(t, 500, opts.IterationLimit)
	require.InDelta(t, 0.1, opts.PenaltyFactor, 1e-9)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLVER_TIME_LIMIT", "soon")
	t.Setenv("RATE_BURST", "many")

	_, err := Load()
	require.ErrorContains(t, err, "SOLVER_TIME_LIMIT")
	require.ErrorContains(t, err, "RATE_BURST")
}

func TestLoad_RejectsUnknownFileKeys(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prot: 80\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RequestTimeoutCoversSolverBudget(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLVER_TIME_LIMIT", "10s")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	_, err := Load()
	require.ErrorContains(t, err, "request timeout")
}

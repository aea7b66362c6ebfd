package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"vehicle-routing-service/internal/solver"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Get returns the value of the environment variable key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

type Solver struct {
	TimeLimit     time.Duration `yaml:"time_limit"`
	Workers       int           `yaml:"workers"`
	GLSAlpha      float64       `yaml:"gls_alpha"`
	MaxIterations int           `yaml:"max_iterations"`
}

// Options converts the solver settings into search options.
func (s Solver) Options() solver.Options {
	return solver.Options{
		TimeLimit:      s.TimeLimit,
		Workers:        s.Workers,
		PenaltyFactor:  s.GLSAlpha,
		IterationLimit: s.MaxIterations,
	}
}

// Config holds every setting of the service. A YAML file (CONFIG_FILE) may
// provide values; environment variables always win over it.
type Config struct {
	Port           string        `yaml:"port"`
	DatabaseURL    string        `yaml:"database_url"`
	RedisURL       string        `yaml:"redis_url"`
	Solver         Solver        `yaml:"solver"`
	RateRPS        float64       `yaml:"rate_rps"`
	RateBurst      int           `yaml:"rate_burst"`
	AllowOrigins   []string      `yaml:"allow_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func Defaults() Config {
	return Config{
		Port: "8080",
		Solver: Solver{
			TimeLimit: solver.DefaultTimeLimit,
			Workers:   1,
			GLSAlpha:  solver.DefaultPenaltyFactor,
		},
		RateRPS:        10,
		RateBurst:      20,
		AllowOrigins:   []string{"*"},
		RequestTimeout: 30 * time.Second,
	}
}

// Load reads .env (if present), then the optional YAML file named by
// CONFIG_FILE, then environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Defaults()
	if path := Get("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load config: open %q: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = Get("REDIS_URL", cfg.RedisURL)

	var errs []error
	cfg.Solver.TimeLimit = envDuration("SOLVER_TIME_LIMIT", cfg.Solver.TimeLimit, &errs)
	cfg.Solver.Workers = envInt("SOLVER_WORKERS", cfg.Solver.Workers, &errs)
	cfg.Solver.GLSAlpha = envFloat("SOLVER_GLS_ALPHA", cfg.Solver.GLSAlpha, &errs)
	cfg.Solver.MaxIterations = envInt("SOLVER_MAX_ITERATIONS", cfg.Solver.MaxIterations, &errs)
	cfg.RateRPS = envFloat("RATE_RPS", cfg.RateRPS, &errs)
	cfg.RateBurst = envInt("RATE_BURST", cfg.RateBurst, &errs)
	cfg.RequestTimeout = envDuration("REQUEST_TIMEOUT", cfg.RequestTimeout, &errs)

	if v := Get("ALLOW_ORIGINS", ""); v != "" {
		cfg.AllowOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("load config: %w", errors.Join(errs...))
	}
	return nil
}

func (c Config) validate() error {
	switch {
	case c.Solver.TimeLimit <= 0:
		return errors.New("load config: solver time limit must be positive")
	case c.Solver.Workers < 1:
		return errors.New("load config: solver workers must be at least 1")
	case c.Solver.GLSAlpha <= 0:
		return errors.New("load config: solver gls alpha must be positive")
	case c.Solver.MaxIterations < 0:
		return errors.New("load config: solver max iterations must not be negative")
	case c.RequestTimeout < c.Solver.TimeLimit:
		return fmt.Errorf("load config: request timeout %s is shorter than the solver time limit %s", c.RequestTimeout, c.Solver.TimeLimit)
	}
	return nil
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func envInt(key string, fallback int, errs *[]error) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64, errs *[]error) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

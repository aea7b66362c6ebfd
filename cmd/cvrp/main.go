package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"vehicle-routing-service/internal/adapters/events"
	"vehicle-routing-service/internal/api/dto"
	"vehicle-routing-service/internal/config"
	"vehicle-routing-service/internal/domain"
	"vehicle-routing-service/internal/solver"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// Exit codes of the solve command.
const (
	exitMalformed  = 2
	exitInfeasible = 3
)

func main() {
	app := cli.NewApp()
	app.Name = "cvrp"
	app.Usage = "solve capacitated vehicle routing problems from JSON files"
	app.Commands = []cli.Command{
		{
			Name:  "solve",
			Usage: "read a problem file and print the routes as JSON",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Value: "data/input.json", Usage: "path to the problem file (- for stdin)"},
				cli.StringFlag{Name: "output, o", Usage: "path to the solution file (default stdout)"},
				cli.DurationFlag{Name: "time-limit, t", Usage: "search time budget (default from SOLVER_TIME_LIMIT)"},
				cli.IntFlag{Name: "workers, w", Usage: "parallel move evaluators (default from SOLVER_WORKERS)"},
				cli.IntFlag{Name: "max-iterations", Usage: "stop after this many search steps, 0 for no limit"},
				cli.BoolFlag{Name: "verbose, v", Usage: "log host info, search events and stats to stderr"},
			},
			Action: solve,
		},
	}

	log.SetOutput(os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func solve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := cfg.Solver.Options()
	if c.IsSet("time-limit") {
		opts.TimeLimit = c.Duration("time-limit")
	}
	if c.IsSet("workers") {
		opts.Workers = c.Int("workers")
	}
	if c.IsSet("max-iterations") {
		opts.IterationLimit = c.Int("max-iterations")
	}

	verbose := c.Bool("verbose")
	if verbose {
		logSystem()
		logger := events.LogPublisher{}
		opts.Tracer = solver.TracerFunc(func(e solver.Event) { logger.Publish("cli", e) })
	}

	p, err := readProblem(c.String("input"))
	if err != nil {
		return exitError(err)
	}

	res, err := solver.Solve(p, opts)
	if err != nil {
		return exitError(err)
	}

	if verbose {
		st := res.Stats
		log.Printf("stats initial=%d best=%d iterations=%d local_optima=%d stop=%s elapsed=%dms",
			st.InitialCost, st.BestCost, st.Iterations, st.LocalOptima, st.StopReason, st.Elapsed.Milliseconds())
	}

	return writeSolution(c.String("output"), dto.NewSolveResponse(res.Solution))
}

func readProblem(path string) (*domain.Problem, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read problem: %w", err)
		}
		defer f.Close()
		r = f
	}

	p, err := dto.DecodeProblem(r)
	if err != nil {
		return nil, fmt.Errorf("read problem: %s: %w", path, err)
	}
	return p, nil
}

// exitError attaches the exit code of err: bad input and infeasible problems
// get their own codes, anything else (I/O included) exits with 1.
func exitError(err error) error {
	switch {
	case errors.Is(err, dto.ErrInvalidJSON), errors.Is(err, dto.ErrTrailingData), errors.Is(err, domain.ErrMalformedProblem):
		return cli.NewExitError(err.Error(), exitMalformed)
	case errors.Is(err, domain.ErrInfeasible):
		return cli.NewExitError(err.Error(), exitInfeasible)
	}
	return err
}

func writeSolution(path string, res dto.SolveResponse) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("write solution: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	return nil
}

// logSystem prints the host the search runs on; solve times are only
// comparable between runs on similar machines.
func logSystem() {
	platform, model, memory := "unknown", "unknown", "unknown"
	if h, err := host.Info(); err == nil {
		platform = h.Platform
	}
	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		model = cpus[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%d GB", vm.Total/1024/1024/1024)
	}
	log.Printf("host platform=%s cpu=%q memory=%s", platform, model, memory)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vehicle-routing-service/internal/adapters/events"
	"vehicle-routing-service/internal/adapters/repositories"
	"vehicle-routing-service/internal/api"
	"vehicle-routing-service/internal/config"
	"vehicle-routing-service/internal/platform/db"
	"vehicle-routing-service/internal/ports"
	"vehicle-routing-service/internal/services"
)

// memoryRunCap bounds the in-memory run history used without a database.
const memoryRunCap = 1000

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]func(context.Context) error{}

	var runs ports.RunRepository
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			log.Fatal(err)
		}
		runs = repositories.NewPostgresRunRepository(sqlDB)
		checks["database"] = sqlDB.PingContext
		log.Printf("run store=postgres")
	} else {
		runs = repositories.NewMemoryRunRepository(memoryRunCap)
		log.Printf("run store=memory cap=%d", memoryRunCap)
	}

	publishers := []ports.EventPublisher{events.LogPublisher{}, events.MetricsPublisher{}}
	if cfg.RedisURL != "" {
		redisPub, err := events.NewRedisPublisher(cfg.RedisURL, 1024)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := redisPub.Close(); err != nil {
				log.Printf("close redis publisher: %v", err)
			}
		}()
		publishers = append(publishers, redisPub)
		checks["redis"] = redisPub.Ping
	}

	svc := &services.RoutingService{
		Options:    cfg.Solver.Options(),
		Runs:       runs,
		Publishers: publishers,
	}

	router := api.NewRouter(api.RouterConfig{
		Service:      svc,
		Timeout:      cfg.RequestTimeout,
		AllowOrigins: cfg.AllowOrigins,
		RateRPS:      cfg.RateRPS,
		RateBurst:    cfg.RateBurst,
		Checks:       checks,
	})

	// WriteTimeout leaves room for a full solve plus encoding the response.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := serve(ctx, srv, cfg); err != nil {
		log.Fatal(err)
	}
}

func serve(ctx context.Context, srv *http.Server, cfg config.Config) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=%s time_limit=%s workers=%d", srv.Addr, cfg.Solver.TimeLimit, cfg.Solver.Workers)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/internal/handlers"
	"github.com/mlombardi/casa-rota/pkg/core/services"
	"github.com/mlombardi/casa-rota/pkg/postgres"
	"github.com/mlombardi/casa-rota/pkg/redisstore"
	"github.com/mlombardi/casa-rota/pkg/utils/logging"
)

const defaultListenAddr = ":8080"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	env := os.Getenv("CASA_ROTA_ENV")

	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting schedule API server", zap.String("environment", env))

	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var (
		store  services.ScheduleStore
		roster services.RosterProvider
	)

	switch cfg.Storage {
	case "postgres":
		logger.Info("Connecting to PostgreSQL")
		pgDB, err := postgres.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pgDB.Close()
		if err := pgDB.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		store = pgDB
		if cfg.RosterSource == "postgres" {
			roster = pgDB
		}
	case "redis":
		logger.Info("Connecting to Redis", zap.String("addr", cfg.RedisAddr))
		redisStore, err := redisstore.NewStore(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisStore.Close()
		store = redisStore
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	if roster == nil {
		// The sheets roster needs an interactive OAuth flow, which has no
		// place in a server process
		return fmt.Errorf("roster source %q is not available for the API server", cfg.RosterSource)
	}

	scheduleHandler := handlers.NewScheduleHandler(store, roster, cfg, logger)
	rosterHandler := handlers.NewRosterHandler(roster, logger)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/roster", rosterHandler.GetRoster)
		r.Get("/weeks/{weekID}", scheduleHandler.GetWeek)
		r.Post("/weeks/{weekID}/shifts", scheduleHandler.AssignShift)
		r.Put("/weeks/{weekID}/shifts/{shiftID}", scheduleHandler.MoveShift)
		r.Delete("/weeks/{weekID}/shifts/{shiftID}", scheduleHandler.DeleteShift)
	})

	addr := cfg.ListenAddr
	if addr == "" {
		addr = defaultListenAddr
	}

	logger.Info("Listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

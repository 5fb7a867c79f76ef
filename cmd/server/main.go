package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightdeck/aeromatch/api"
	"github.com/flightdeck/aeromatch/db"
	"github.com/flightdeck/aeromatch/internal/config"
	idb "github.com/flightdeck/aeromatch/internal/db"
	"github.com/flightdeck/aeromatch/internal/jobs"
	"github.com/flightdeck/aeromatch/internal/mailer"
	"github.com/flightdeck/aeromatch/internal/repository/sqlite"
	"github.com/flightdeck/aeromatch/internal/scheduler"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	logger.Info("starting aeromatch server", "version", version, "build_time", buildTime, "env", cfg.Environment)

	ctx := context.Background()

	database, err := idb.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := idb.Migrate(ctx, database, db.Migrations); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repo := sqlite.New(database)
	mail := mailer.NewClient(cfg.Mailer, logger)

	jobRepo := jobs.NewRepository(database)
	pool := jobs.NewWorkerPool(jobRepo, jobs.Handlers(repo, repo, mail, logger), logger, cfg.Workers)
	pool.Start(ctx)

	sched := scheduler.New(repo, repo, repo, pool, cfg.ReminderCron, logger)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}

	handler, err := api.SetupRoutes(cfg, version, buildTime, database, pool)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	sched.Stop()
	pool.Stop()

	if err := database.Close(); err != nil {
		logger.Error("closing DB", "err", err)
	}

	logger.Info("server exited")
}

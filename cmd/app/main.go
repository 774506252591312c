package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"proofparcel/cmd"
	"proofparcel/internal/adapters/out/memory"
	"proofparcel/internal/adapters/out/postgres"
	"proofparcel/internal/pkg/clock"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(".env")

	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, _ := config.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, config, logger); err != nil {
		logger.Error("ProofParcel stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config cmd.Config, logger *slog.Logger) error {
	backend, closeBackend, err := openBackend(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	app, err := cmd.NewCompositionRoot(config, backend, clock.Real(), logger)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e, err := app.CreateHTTPServer()
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", config.HTTPPort, "storage", config.Storage)
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openBackend returns the configured storage and a function releasing it.
// The memory backend restores SNAPSHOT_PATH at start and writes it back on close.
func openBackend(ctx context.Context, config cmd.Config, logger *slog.Logger) (cmd.Backend, func(), error) {
	if config.Storage == cmd.StoragePostgres {
		db, err := postgres.Open(config.Database().DSN(), logger)
		if err != nil {
			return cmd.Backend{}, nil, err
		}
		if err = postgres.Migrate(db); err != nil {
			return cmd.Backend{}, nil, fmt.Errorf("migrate: %w", err)
		}

		closeDB := func() {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
		return cmd.NewPostgresBackend(db), closeDB, nil
	}

	store := memory.NewStore(logger)
	if config.SnapshotPath == "" {
		return cmd.NewMemoryBackend(store), func() {}, nil
	}

	if err := store.LoadFile(ctx, config.SnapshotPath); err != nil {
		return cmd.Backend{}, nil, fmt.Errorf("restore snapshot: %w", err)
	}
	saveSnapshot := func() {
		if err := store.SaveFile(config.SnapshotPath); err != nil {
			logger.Error("Failed to save snapshot", "path", config.SnapshotPath, "error", err)
			return
		}
		logger.Info("Snapshot saved", "path", config.SnapshotPath)
	}
	return cmd.NewMemoryBackend(store), saveSnapshot, nil
}

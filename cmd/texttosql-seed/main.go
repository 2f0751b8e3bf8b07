package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/brandonsmith301/text-to-sql/internal/demo/seeder"
)

func main() {
	cfg, err := seeder.LoadConfigFromEnv(os.LookupEnv)
	if err != nil {
		slog.Error("failed to load seeder config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	service := seeder.NewService(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(
		"seeder started",
		slog.String("db_path", cfg.DatabasePath),
		slog.String("schema_path", cfg.SchemaPath),
		slog.Int64("seed", cfg.Seed),
		slog.Int("enrolments", cfg.EnrolmentCount),
	)

	err = service.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("seeder failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seeder finished")
}

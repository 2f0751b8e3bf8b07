package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandonsmith301/text-to-sql/internal/api"
	"github.com/brandonsmith301/text-to-sql/internal/auth"
	"github.com/brandonsmith301/text-to-sql/internal/config"
	"github.com/brandonsmith301/text-to-sql/internal/encoder"
	"github.com/brandonsmith301/text-to-sql/internal/observability"
	"github.com/brandonsmith301/text-to-sql/internal/retrieval"
	"github.com/brandonsmith301/text-to-sql/internal/schema"
	schemapostgres "github.com/brandonsmith301/text-to-sql/internal/schema/postgres"
	s3store "github.com/brandonsmith301/text-to-sql/internal/storage/s3"
)

func main() {
	cfg, err := config.LoadFromEnv("texttosql-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	source, cleanup, err := buildSchemaSource(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialize schema source", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	textEncoder, err := buildEncoder(cfg)
	if err != nil {
		logger.Error("failed to initialize encoder", slog.Any("error", err))
		os.Exit(1)
	}

	retriever := &retrieval.Retriever{
		Encoder:         textEncoder,
		Logger:          logger,
		ThresholdMargin: cfg.Retrieval.ThresholdMargin,
	}

	deps := api.Dependencies{
		Logger:       logger,
		SchemaSource: source,
		Retriever:    retriever,
		Readiness: api.CombineReadinessChecks(
			api.CheckSchemaSource(source),
			api.CheckEncoderConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func buildSchemaSource(ctx context.Context, cfg config.Config) (schema.Source, func(), error) {
	noop := func() {}
	switch cfg.Schema.Source {
	case config.SchemaSourceFile:
		source, err := schema.NewFileSource(cfg.Schema.Path)
		return source, noop, err
	case config.SchemaSourceS3:
		store, err := s3store.New(s3store.Config{
			Endpoint:        cfg.ObjectStore.Endpoint,
			Region:          cfg.ObjectStore.Region,
			Bucket:          cfg.ObjectStore.Bucket,
			AccessKeyID:     cfg.ObjectStore.AccessKeyID,
			SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
			UseSSL:          cfg.ObjectStore.UseSSL,
			Prefix:          cfg.ObjectStore.Prefix,
		})
		if err != nil {
			return nil, noop, err
		}
		source, err := schema.NewObjectSource(store, cfg.Schema.ObjectKey)
		return source, noop, err
	case config.SchemaSourcePostgres:
		db, err := schemapostgres.Open(ctx, schemapostgres.DBConfig{
			DSN:             cfg.Catalog.DSN,
			MaxOpenConns:    cfg.Catalog.MaxOpenConns,
			MaxIdleConns:    cfg.Catalog.MaxIdleConns,
			ConnMaxIdleTime: cfg.Catalog.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Catalog.ConnMaxLifetime,
		})
		if err != nil {
			return nil, noop, err
		}
		source, err := schemapostgres.NewSource(db, cfg.Schema.PGSchema)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return source, func() { _ = db.Close() }, nil
	default:
		return nil, noop, errors.New("unsupported schema source: " + cfg.Schema.Source)
	}
}

func buildEncoder(cfg config.Config) (encoder.Encoder, error) {
	openai, err := encoder.NewOpenAIEncoder(encoder.OpenAIConfig{
		BaseURL:    cfg.Encoder.BaseURL,
		APIKey:     cfg.Encoder.APIKey,
		Model:      cfg.Encoder.Model,
		Dimensions: cfg.Encoder.Dimensions,
		Timeout:    cfg.Encoder.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Encoder.CacheEnabled {
		return encoder.NewCached(openai), nil
	}
	return openai, nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"

	"autoposter/internal/config"
	"autoposter/internal/destination/facebook"
	"autoposter/internal/domain"
	"autoposter/internal/generation"
	"autoposter/internal/publisher"
	"autoposter/internal/retry"
	"autoposter/internal/rotation"
	"autoposter/internal/service"
	"autoposter/internal/storage/postgres"
	"autoposter/internal/upload"
)

type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	retrier   *retry.Retrier
	generator *generation.Client
	service   *service.PublishingService
	closers   []func() error
}

// newApp builds only the generator. The publishing service needs page
// credentials and is built by publishing on first use.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	a.retrier = retry.NewRetrier(retry.Config{
		MaxAttempts:    cfg.API.Retry.MaxAttempts,
		InitialBackoff: cfg.API.Retry.InitialBackoff,
		MaxBackoff:     cfg.API.Retry.MaxBackoff,
	}, logger)

	a.generator = generation.NewClient(newBackend(ctx, cfg, a.retrier, logger), generation.Options{
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	}, logger)

	return a, nil
}

// publishing returns the publishing service, building it on the first call.
func (a *app) publishing(ctx context.Context) (*service.PublishingService, error) {
	if a.service != nil {
		return a.service, nil
	}
	cfg, logger := a.cfg, a.logger

	graph := retry.NewClient(&http.Client{Timeout: cfg.Facebook.Timeout}, a.retrier, logger)
	fb, err := facebook.New(facebook.Config{
		BaseURL:   cfg.Facebook.BaseURL,
		PageID:    cfg.Facebook.PageID,
		PageToken: cfg.Facebook.PageToken,
	}, graph, logger)
	if err != nil {
		return nil, err
	}

	engine := upload.NewEngine(fb, upload.Config{
		ChunkSize:    cfg.Upload.ChunkSize,
		PollAttempts: cfg.Upload.PollAttempts,
		PollInterval: cfg.Upload.PollInterval,
		RetryFinish:  cfg.Upload.RetryFinish,
	}, logger)

	tracker := rotation.NewTracker(
		rotation.NewScanner(cfg.Project.Root,
			rotation.Dir{Path: cfg.Project.ImagesDir, Kind: domain.MediaImage},
			rotation.Dir{Path: cfg.Project.VideosDir, Kind: domain.MediaVideo},
		),
		rotation.NewFileStore(cfg.Project.Path(cfg.Project.TrackerFile), logger),
		logger,
	)

	var events service.Publisher
	if cfg.RabbitMQ.Enabled() {
		rmq, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Warn("event publishing disabled", "error", err)
		} else {
			events = rmq
			a.closers = append(a.closers, rmq.Close)
		}
	}

	var history service.HistoryStore
	if cfg.Database.Enabled() {
		db, err := postgres.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Warn("publish history disabled", "error", err)
		} else {
			history = postgres.NewHistoryStore(db)
			a.closers = append(a.closers, db.Close)
		}
	}

	a.service = service.NewPublishingService(fb, engine, tracker, a.generator, events, history, logger)
	return a.service, nil
}

// newBackend returns nil when generation is not configured, which makes the
// generation client answer with fallbacks.
func newBackend(ctx context.Context, cfg *config.Config, retrier *retry.Retrier, logger *slog.Logger) generation.Backend {
	gen := cfg.Generation

	switch gen.Provider {
	case "http":
		client := retry.NewClient(&http.Client{Timeout: gen.Timeout}, retrier, logger)
		backend, err := generation.NewHTTPBackend(client, gen.Endpoint, gen.APIKey)
		if err != nil {
			logger.Warn("generation backend unavailable", "provider", gen.Provider, "error", err)
			return nil
		}
		return backend
	case "genai":
		if gen.APIKey == "" {
			logger.Info("no generation api key configured")
			return nil
		}
		backend, err := generation.NewGenAIBackend(ctx, gen.APIKey, gen.Model, retrier)
		if err != nil {
			logger.Warn("generation backend unavailable", "provider", gen.Provider, "error", err)
			return nil
		}
		return backend
	default:
		logger.Warn("unknown generation provider", "provider", gen.Provider)
		return nil
	}
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

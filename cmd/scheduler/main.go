package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"autoposter/internal/config"
	"autoposter/internal/logging"
	"autoposter/internal/scheduler"
	"autoposter/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := logging.New("info", os.Stdout)

	cfg, err := loadConfig(*configPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = logging.New(cfg.LogLevel, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var history scheduler.RunRecorder
	if cfg.Database.Enabled() {
		db, err := postgres.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		history = postgres.NewHistoryStore(db)
		logger.Info("connected to database")
	}

	store := scheduler.NewJobStore(cfg.Project.Path(cfg.Project.ScheduleFile), logger)
	runner := scheduler.NewProcessRunner(scheduler.RunnerConfig{
		TaskDir:     cfg.Project.Path(cfg.Scheduler.TaskDir),
		WorkDir:     cfg.Project.Root,
		Timeout:     cfg.Scheduler.TaskTimeout,
		DefaultArgs: cfg.Scheduler.DefaultArgs,
	}, logger)

	sched := scheduler.NewScheduler(store, runner, history, cfg.Scheduler.Tick, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting scheduler",
		"schedule_file", cfg.Project.ScheduleFile,
		"task_dir", cfg.Scheduler.TaskDir,
		"tick", cfg.Scheduler.Tick,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("config file not found, using defaults", "path", path)
		return config.Default(), nil
	}
	return cfg, err
}

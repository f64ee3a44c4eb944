package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/horizonapply/horizon/internal/app"
	"github.com/horizonapply/horizon/internal/guardian"
	jobmetrics "github.com/horizonapply/horizon/internal/jobs"
	"github.com/horizonapply/horizon/internal/platform/cache"
	"github.com/horizonapply/horizon/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	guardianCache := guardian.NewCache(redisClient, cfg.GuardianCacheTTL)
	invalidateJob := jobs.NewGuardianInvalidateJob(guardianCache, logger, jobmetrics.NewMetrics(nil))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskGuardianInvalidate, Handler: invalidateJob.Handle},
			{Type: jobs.TaskGuardianCacheSweep, Handler: invalidateJob.HandleSweep},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 4 * * *", Task: jobs.NewGuardianCacheSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

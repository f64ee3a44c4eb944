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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/horizonapply/horizon/internal/app"
	"github.com/horizonapply/horizon/internal/applications"
	"github.com/horizonapply/horizon/internal/auth"
	"github.com/horizonapply/horizon/internal/guardian"
	"github.com/horizonapply/horizon/internal/notes"
	"github.com/horizonapply/horizon/internal/observability"
	"github.com/horizonapply/horizon/internal/platform/db"
	"github.com/horizonapply/horizon/internal/rbac"
	"github.com/horizonapply/horizon/internal/students"
	"github.com/horizonapply/horizon/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	signer := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTTTL)
	identityRepo := auth.NewRepository(pool)
	resolver := auth.NewResolver(signer, identityRepo, logger)
	authHandler := auth.NewHandler(logger, auth.NewService(identityRepo, signer))

	guardianCache := guardian.NewCache(redisClient, cfg.GuardianCacheTTL)
	guardianService := guardian.NewService(
		guardian.NewRepository(pool),
		guardianCache,
		jobs.NewEnqueuer(asynqClient),
		logger,
	)

	authorizer := rbac.NewAuthorizer(rbac.DefaultCatalog(), guardianService, logger)
	enforce := rbac.Middleware{
		Resolver:   resolver,
		Authorizer: authorizer,
		CookieName: cfg.AuthCookieName,
		Logger:     logger,
	}

	applicationsHandler := applications.NewHandler(logger, applications.NewService(applications.NewRepository(pool)), authorizer)
	notesHandler := notes.NewHandler(logger, notes.NewService(notes.NewRepository(pool)), authorizer)
	guardianHandler := guardian.NewHandler(logger, guardianService)
	studentsHandler := students.NewHandler(logger, students.NewService(students.NewRepository(pool)))

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Enforce:             enforce,
		AuthHandler:         authHandler,
		ApplicationsHandler: applicationsHandler,
		NotesHandler:        notesHandler,
		GuardianHandler:     guardianHandler,
		StudentsHandler:     studentsHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}

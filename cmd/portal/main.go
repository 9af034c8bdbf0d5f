package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/vidanova-church/portal/internal/adminpanel"
	"github.com/vidanova-church/portal/internal/app"
	"github.com/vidanova-church/portal/internal/auth"
	"github.com/vidanova-church/portal/internal/checkin"
	"github.com/vidanova-church/portal/internal/httpclient"
	"github.com/vidanova-church/portal/internal/members"
	"github.com/vidanova-church/portal/internal/observability"
	"github.com/vidanova-church/portal/internal/platform/cache"
	"github.com/vidanova-church/portal/internal/platform/db"
	"github.com/vidanova-church/portal/internal/rbac"
	"github.com/vidanova-church/portal/internal/visitors"
	"github.com/vidanova-church/portal/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	metrics := observability.NewMetrics()

	verifier := auth.NewHTTPVerifier(cfg.AuthProviderURL, cfg.AuthProviderKey, cfg.AuthProviderTimeout,
		httpclient.WithLogger(logger),
		httpclient.WithRetryHook(metrics.RetryHook()))
	roleStore := rbac.NewCachedStore(rbac.NewPGStore(dbpool), redisClient, cfg.RoleCacheTTL)
	gateway := auth.NewGateway(verifier, roleStore)
	authz := auth.Middleware{Gateway: gateway, Logger: logger}

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	membersRepo := members.NewRepository(dbpool, cfg.PGServiceRole)
	membersService := members.NewService(membersRepo)
	membersHandler := members.NewHandler(logger, membersService, authz)

	visitorsRepo := visitors.NewRepository(dbpool, cfg.PGServiceRole)
	visitorsService := visitors.NewService(visitorsRepo, jobsClient, logger)
	visitorsHandler := visitors.NewHandler(logger, visitorsService, authz)

	checkinRepo := checkin.NewRepository(dbpool, cfg.PGServiceRole)
	checkinService := checkin.NewService(checkinRepo)
	checkinHandler := checkin.NewHandler(logger, checkinService, authz)

	adminRepo := adminpanel.NewRepository(dbpool, cfg.PGServiceRole)
	adminHandler := adminpanel.NewHandler(logger, adminRepo, authz)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		MembersHandler:  membersHandler,
		VisitorsHandler: visitorsHandler,
		CheckinHandler:  checkinHandler,
		AdminHandler:    adminHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dbx-labels/etiquetas/internal/app"
	"github.com/dbx-labels/etiquetas/internal/auth"
	"github.com/dbx-labels/etiquetas/internal/authz"
	"github.com/dbx-labels/etiquetas/internal/observability"
	"github.com/dbx-labels/etiquetas/internal/platform/cache"
	"github.com/dbx-labels/etiquetas/internal/platform/db"
	"github.com/dbx-labels/etiquetas/internal/shared"
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

	policy := authz.DefaultPolicy()
	if cfg.PolicyFile != "" {
		policy, err = authz.LoadPolicyFile(cfg.PolicyFile)
		if err != nil {
			logger.Error("load policy", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("policy loaded", slog.String("path", cfg.PolicyFile))
	}

	metrics := observability.NewMetrics()
	sessionManager := shared.NewSessionManager(redisClient, "etiquetas_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)

	verifier := auth.NewTokenVerifier(cfg.TokenSecret)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(verifier, authRepo, auditLogger, cfg.SessionTTL)
	authHandler := auth.NewHandler(logger, authService, policy)

	guard := authz.Middleware{Policy: policy, Logger: logger, Observer: metrics}
	authzHandler := authz.NewHandler(logger, policy, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		AuthHandler:    authHandler,
		AuthzHandler:   authzHandler,
		Metrics:        metrics,
	})

	srv := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppRequestTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

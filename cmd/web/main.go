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

	"github.com/joho/godotenv"

	"github.com/Bahjat/project-tasks-web/internal/apiclient"
	"github.com/Bahjat/project-tasks-web/internal/platform/config"
	"github.com/Bahjat/project-tasks-web/internal/platform/logger"
	"github.com/Bahjat/project-tasks-web/internal/platform/middleware"
	"github.com/Bahjat/project-tasks-web/internal/session"
	"github.com/Bahjat/project-tasks-web/internal/web"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	api := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}, log)

	h, err := web.New(api, store, web.Options{
		ProjectsPageSize: cfg.ProjectsPageSize,
		TasksPageSize:    cfg.TasksPageSize,
		SessionTTL:       cfg.SessionTTL,
		CookieSecure:     cfg.CookieSecure,
		MetricsEnabled:   cfg.MetricsEnabled,
	}, log)
	if err != nil {
		return fmt.Errorf("web: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: middleware.Chain(h.Routes(),
			middleware.RequestID,
			middleware.Logging(log),
			middleware.Recover(log),
		),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.APITimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started",
			"addr", srv.Addr,
			"api", cfg.APIBaseURL,
			"session_store", cfg.SessionStore,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.SessionStore != config.SessionStoreRedis {
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}

	rs, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis session store: %w", err)
	}
	return rs, func() { _ = rs.Close() }, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/inventory-api/internal/api"
	"github.com/vietanh2810/inventory-api/internal/config"
	"github.com/vietanh2810/inventory-api/internal/db"
	"github.com/vietanh2810/inventory-api/internal/logger"
	"github.com/vietanh2810/inventory-api/internal/telemetry"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 5 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conf.Database.Driver = config.DriverPostgres
		conf.Database.DSN = dbURL
	}

	if err = logger.Init(conf.API.Environment, conf.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	err = config.Watch(configPath, func(c *config.AppConfig) {
		if err := logger.SetLevel(c.Log.Level); err != nil {
			zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("log level reloaded", zap.Stringer("level", logger.Level()))
	})
	if err != nil {
		zap.L().Warn("config watcher disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanupTracer, err := telemetry.InitTracer(ctx, conf.Otel)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer -> %w", err)
	}

	gormDB, err := db.Open(conf.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			zap.L().Error("failed to close database", zap.Error(err))
		}
	}()

	if err = db.Migrate(ctx, gormDB); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	s := api.NewServer(conf, gormDB)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	return serve(ctx, srv, cleanupTracer)
}

// serve runs srv until ctx is done or the listener fails. Either way the server is
// drained and buffered spans are flushed before returning.
func serve(ctx context.Context, srv *http.Server, cleanupTracer telemetry.CleanupFunc) error {
	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var startErr error
	select {
	case err := <-serveErr:
		if err != nil {
			startErr = fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down server")
	}

	shutdown(srv, cleanupTracer)

	return startErr
}

// shutdown drains the server and flushes buffered spans, sharing one deadline.
func shutdown(srv *http.Server, cleanupTracer telemetry.CleanupFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("failed to shut down server gracefully", zap.Error(err))
	}
	if err := cleanupTracer(ctx); err != nil {
		zap.L().Error("failed to flush tracer", zap.Error(err))
	}
}

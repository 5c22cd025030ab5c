// Package server boots every subsystem and runs the HTTP server until
// an interrupt arrives.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kunalsingla/product-api/config"
	"github.com/kunalsingla/product-api/internal/kernel"
	"github.com/kunalsingla/product-api/pkg/cache"
	"github.com/kunalsingla/product-api/pkg/database"
	"github.com/kunalsingla/product-api/pkg/logger"
	"github.com/kunalsingla/product-api/pkg/migration"
	"github.com/kunalsingla/product-api/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Start boots the application and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	mongoSink, err := logger.AttachMongo()
	if err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	if mongoSink != nil {
		defer mongoSink.Close()
	}

	if err := database.Connect(); err != nil {
		return err
	}

	// Pending migrations run at boot so a fresh container comes up with
	// its schema in place.
	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("cache disabled, continuing without redis", "error", err)
	}

	storage.Connect()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.NewHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"env", config.AppEnv(),
			"driver", config.DatabaseDriver(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

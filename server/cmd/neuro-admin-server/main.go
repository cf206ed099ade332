// Package main provides the neuro admin API server.
//
// The server stores clusters, cluster users, quotas and resource presets in
// SQLite and serves the admin API consumed by "neuro admin". It is meant for
// development and end-to-end testing; cloud provider setup only records the
// configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/pkg/token"
	"github.com/neuromation/neuro-admin/server/api"
	"github.com/neuromation/neuro-admin/server/internal/database"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "util" {
		if err := executeUtil(args[1:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	config, err := parseFlags(args, os.Getenv)
	if err != nil {
		os.Exit(2)
	}
	if err := validateConfig(config); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewServerLogger(config.LogLevel, logging.Environment(config.Environment))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// run serves the API until ctx is cancelled.
func run(ctx context.Context, config *Config, logger *zap.Logger) error {
	logger.Info("starting neuro-admin-server",
		zap.String("version", version),
		zap.String("instance_id", config.InstanceID),
		zap.String("listen_addr", config.ListenAddr),
		zap.String("log_level", config.LogLevel),
	)

	db, err := database.Open(ctx, config.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// The HMAC key only needs to live as long as the process.
	secret, err := token.Generate()
	if err != nil {
		return err
	}
	verifier, err := token.NewVerifier(config.AdminToken, secret)
	if err != nil {
		return err
	}

	if logging.Environment(config.Environment) == logging.EnvironmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(&api.RouterConfig{
		DB:           db,
		Logger:       logger,
		Verifier:     verifier,
		InstanceID:   config.InstanceID,
		AllowOrigins: config.AllowOrigins,
		RateLimit:    config.RateLimit,
		Burst:        config.Burst,
		Done:         ctx.Done(),
	})

	srv := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", config.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/convene-events/server/internal/api"
	"github.com/convene-events/server/internal/api/handlers"
	"github.com/convene-events/server/internal/auth"
	"github.com/convene-events/server/internal/config"
	"github.com/convene-events/server/internal/domain/events"
	"github.com/convene-events/server/internal/domain/users"
	"github.com/convene-events/server/internal/email"
	"github.com/convene-events/server/internal/jobs"
	"github.com/convene-events/server/internal/metrics"
	"github.com/convene-events/server/internal/storage"
	"github.com/convene-events/server/internal/storage/memory"
	"github.com/convene-events/server/internal/storage/postgres"
	"github.com/convene-events/server/internal/telemetry"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Convene HTTP server",
	Long: `Start the Convene HTTP server and begin accepting API requests.

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("environment", cfg.Environment).Msg("starting convene server")

	metrics.Init(Version, GitCommit, BuildDate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	var (
		store  storage.Repository
		pinger handlers.Pinger
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		poolCtx, poolCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := postgres.Connect(poolCtx, cfg.Storage.DatabaseURL)
		poolCancel()
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()

		pgStore, err := postgres.NewStore(pool)
		if err != nil {
			return err
		}
		store = pgStore
		pinger = pgStore
		logger.Info().Str("driver", cfg.Storage.Driver).Msg("storage ready")
	default:
		store = memory.NewStore()
		logger.Info().Str("driver", config.StorageMemory).Msg("storage ready")
	}

	mailer, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("email service init failed: %w", err)
	}
	dispatcher := jobs.NewDispatcher(mailer, cfg.Notifications.QueueSize, logger)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
	usersService := users.NewService(store.Users(), tokens, dispatcher, logger)
	eventsService := events.NewService(store.Events(), store, dispatcher, logger)

	eventsHandler, err := handlers.NewEventsHandler(eventsService)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	router := api.NewRouter(cfg, logger, api.Services{
		Auth:   handlers.NewAuthHandler(usersService),
		Events: eventsHandler,
		Tokens: tokens,
		Pinger: pinger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return dispatcher.Run(groupCtx)
	})

	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	// Override logging from flags if provided
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

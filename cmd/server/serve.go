package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gather/server/internal/handlers"
	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/repository"
	"github.com/gather/server/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.GetLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	telemetry, err := observability.Initialize(ctx, observability.NewConfig("gather-api", handlers.Version))
	if err != nil {
		log.WithError(err).Warn("Failed to initialize telemetry")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Telemetry shutdown failed")
			}
		}()
	}

	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		log.WithError(err).Warn("HTTP metrics unavailable")
		httpMetrics = nil
	}
	businessMetrics, err := observability.NewBusinessMetrics()
	if err != nil {
		log.WithError(err).Warn("Business metrics unavailable")
		businessMetrics = nil
	}

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	log.Infof("Using %s database", store.Backend())

	storage, err := services.NewAssetStorage(ctx, cfg.Assets)
	if err != nil {
		return err
	}

	hub := services.NewWebSocketHub()
	go hub.Run(ctx)

	for _, warning := range cfg.Warnings() {
		log.Warn(warning)
	}
	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL())
	users := services.NewUserService(store.Users, tokens, businessMetrics)

	deps := handlers.Dependencies{
		DB:             store,
		Users:          users,
		Collections:    services.NewCollectionService(store, businessMetrics),
		Shares:         services.NewShareService(store, hub, businessMetrics),
		Notifications:  services.NewNotificationService(store.Notifications),
		Works:          services.NewWorkService(store.Works),
		Avatars:        services.NewAvatarService(storage, users, cfg.Assets, businessMetrics),
		Hub:            hub,
		LoginLimiter:   middleware.NewIPRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.Burst, 10*time.Minute),
		HTTPMetrics:    httpMetrics,
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if local, ok := storage.(*services.LocalAssetStorage); ok {
		deps.LocalAssets = local.Root()
		deps.AssetsPrefix = cfg.Assets.PublicBaseURL
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handlers.NewRouter(deps),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Gather API %s starting on %s", handlers.Version, cfg.ServerAddress)
		log.Infof("Avatar storage: %s", storage.Kind())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}

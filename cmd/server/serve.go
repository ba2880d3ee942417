package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/api"
	"github.com/maxviazov/openapi-skeleton/internal/auth"
	"github.com/maxviazov/openapi-skeleton/internal/config"
	"github.com/maxviazov/openapi-skeleton/internal/datasource"
	"github.com/maxviazov/openapi-skeleton/internal/handler"
	"github.com/maxviazov/openapi-skeleton/internal/logger"
	"github.com/maxviazov/openapi-skeleton/internal/openapi"
	"github.com/maxviazov/openapi-skeleton/internal/server"
	"github.com/maxviazov/openapi-skeleton/internal/service"
	"github.com/maxviazov/openapi-skeleton/internal/version"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the public and admin listeners",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configFile)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	return cmd
}

func serve(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}

	if cfg.Logger.Env == "" {
		cfg.Logger.Env = cfg.App.Env
	}
	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = cfg.App.Name
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = version.Version
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	if cfg.App.Env == "prod" || cfg.App.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	doc, err := openapi.Load(ctx, api.Spec)
	if err != nil {
		return err
	}

	src, err := datasource.Open(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("data source: %w", err)
	}
	defer src.Close()

	authenticator, err := auth.New(cfg.Auth)
	if err != nil {
		return err
	}

	public := handler.NewPublic(handler.Deps{
		Doc:              doc,
		Pets:             service.NewPetService(src.Pets, appLogger),
		Pinger:           src.Pinger,
		Auth:             authenticator,
		Logger:           appLogger,
		PublicURL:        cfg.Server.PublicURL,
		StrictValidation: cfg.OpenAPI.StrictValidation,
		ValidateRequests: cfg.OpenAPI.ValidateRequests,
	})
	admin := handler.NewAdmin(handler.AdminDeps{
		Name:     cfg.App.Name,
		BasePath: doc.BasePath(),
		Auth:     authenticator,
		Logger:   appLogger,
	})

	corsed := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: len(cfg.CORS.AllowedOrigins) > 0,
	}).Handler(public)

	tlsCfg, err := server.TLSConfig(cfg.Server.TLS)
	if err != nil {
		return err
	}

	appLogger.Info().
		Str("title", doc.Title()).
		Str("base_path", doc.BasePath()).
		Bool("strict_validation", cfg.OpenAPI.StrictValidation).
		Str("auth", cfg.Auth.Mode).
		Msg("service starting")

	return server.Run(ctx, appLogger, cfg.Server.ShutdownTimeout,
		server.NewListener("app", cfg.App.Port, corsed, cfg.Server, tlsCfg),
		server.NewListener("admin", cfg.Server.AdminPort, admin, cfg.Server, tlsCfg),
	)
}

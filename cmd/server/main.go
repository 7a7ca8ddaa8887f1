package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/crackthecode/internal/api"
	"github.com/mcoot/crackthecode/internal/config"
	"github.com/mcoot/crackthecode/internal/factory"
)

func main() {
	configPath := flag.String("config", os.Getenv("CTC_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := cfg.Log.NewLogger(os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application factory
	app, err := factory.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthService:    app.AuthService,
		Profiles:       app.Profiles,
		Relationships:  app.Relationships,
		Chat:           app.Chat,
		Daily:          app.Daily,
		Scores:         app.Scores,
		Pool:           app.Pool,
		UploadsDir:     cfg.Uploads.Dir,
		UploadsPrefix:  cfg.Uploads.URLPrefix,
	})
	server := api.NewServer(router, cfg.Server, logger)

	resetDone := app.StreakReset.Start(ctx)
	defer func() { <-resetDone }()
	defer stop()

	logger.Info("server starting", slog.String("storage", cfg.Storage.Type))
	return server.Run(ctx)
}

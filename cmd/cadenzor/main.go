package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	cliDigest "github.com/Sc0remac/cadenzor/adapter/cli/digest"
	cliRules "github.com/Sc0remac/cadenzor/adapter/cli/rules"
	cliScore "github.com/Sc0remac/cadenzor/adapter/cli/score"
	cliSettings "github.com/Sc0remac/cadenzor/adapter/cli/settings"
	cliTimeline "github.com/Sc0remac/cadenzor/adapter/cli/timeline"
	"github.com/Sc0remac/cadenzor/internal/app"
	"github.com/Sc0remac/cadenzor/pkg/config"
	"github.com/Sc0remac/cadenzor/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	// Try to initialize the full container. The scoring, conflict, and slot
	// commands work on snapshot files alone, so a missing database only
	// degrades the CLI instead of blocking it in development.
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running without backends", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		cliApp = &cli.App{
			ConfigService: container.ConfigService,
			DigestService: container.DigestService,
			RuleRepo:      container.RuleRepo,
			Classifier:    container.Classifier,
			Health:        container.Health,
		}

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid CADENZOR_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentUserID(userID)
	}

	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(cliScore.Cmd)
	cli.AddCommand(cliRules.Cmd)
	cli.AddCommand(cliTimeline.Cmd)
	cli.AddCommand(cliDigest.Cmd)
	cli.AddCommand(cliSettings.Cmd)

	// Execute CLI
	cli.Execute()
}

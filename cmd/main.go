package main

import (
	"context"
	"errors"
	"os"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
	"github.com/urfave/cli/v3"
)

// configEnv names an alternate config file.
const configEnv = "PAGEHOPPERS_CONFIG"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	configPath := "config.toml"
	if p := os.Getenv(configEnv); p != "" {
		configPath = p
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "hoppers",
		Usage:    "Page Hoppers reading log for families",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close credential store", "error", cerr)
	}
	if err == nil {
		return
	}

	var fe *tasks.FlowError
	var ve *models.ValidationError
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		logger.Fatal("not signed in", "error", err, "hint", "run `hoppers auth login` (and `hoppers auth child-login` for child commands)")
	case errors.As(err, &fe), errors.As(err, &ve):
		logger.Fatal(tasks.Message(err))
	default:
		logger.Fatalf("application error: %v", err)
	}
}

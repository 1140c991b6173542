package main

import (
	"context"
	"fmt"

	"github.com/mirastory/mira/internal/config"
	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/nats"
	"github.com/mirastory/mira/internal/profile"
)

var globalFlags struct {
	owner    string
	language string
	dataDir  string
	logLevel string
}

// loadConfig loads the layered config, applies command-line overrides,
// configures logging and validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg)

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	if globalFlags.owner != "" {
		cfg.OwnerID = globalFlags.owner
	}
	if globalFlags.language != "" {
		cfg.PreferredLanguage = globalFlags.language
	}
	if globalFlags.dataDir != "" {
		cfg.DataDir = globalFlags.dataDir
	}
	if globalFlags.logLevel != "" {
		cfg.LogLevel = globalFlags.logLevel
	}
}

// openStore starts the embedded event store. The returned func closes it.
func openStore(ctx context.Context, cfg *config.Config) (*profile.Store, func(), error) {
	embedded, err := nats.Open(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open profile store: %w", err)
	}
	closeFn := func() {
		if err := embedded.Close(); err != nil {
			logger.Warn("Closing profile store: %v", err)
		}
	}
	return profile.NewStore(embedded.JS, embedded.Stream), closeFn, nil
}

// appearanceExtractor returns the configured extractor, or nil when photo
// extraction is not set up.
func appearanceExtractor(cfg *config.Config) profile.AppearanceExtractor {
	if cfg.AppearanceEndpoint == "" {
		return nil
	}
	return profile.NewHTTPExtractor(cfg.AppearanceEndpoint)
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/config"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/scheduler"
	"github.com/noldarim/showcase/internal/telemetry"
	"github.com/spf13/cobra"
)

// session is everything a command needs to play a theme
type session struct {
	cfg       *config.AppConfig
	theme     catalog.Theme
	loop      *scheduler.Loop
	sched     scheduler.Scheduler
	telemetry *telemetry.Provider
}

// loadConfig reads the config file and applies flag overrides
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.NewConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Pipeline.Theme = o.theme
		cfg.Pipeline.StagesFile = ""
	}
	if flags.Changed("stages") {
		cfg.Pipeline.StagesFile = o.stagesFile
	}
	if flags.Changed("speed") {
		cfg.Pipeline.Speed = o.speed
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// loadTheme resolves the configured theme without starting anything
func (o *globalOptions) loadTheme(cmd *cobra.Command) (*config.AppConfig, catalog.Theme, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, catalog.Theme{}, err
	}
	theme, err := catalog.Resolve(cfg.Pipeline.Theme, cfg.Pipeline.StagesFile)
	if err != nil {
		return nil, catalog.Theme{}, fmt.Errorf("failed to load theme: %w", err)
	}
	return cfg, theme, nil
}

// open loads configuration and the theme, initializes logging and tracing,
// and starts the scheduler loop. The loop stops when ctx is cancelled or the
// session is closed.
func (o *globalOptions) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, theme, err := o.loadTheme(cmd)
	if err != nil {
		return nil, err
	}

	// Log to file only so the terminal stays clean.
	if err := logger.Initialize(&cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		_ = logger.CloseGlobal()
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	loop := scheduler.NewLoop()
	go loop.Run(ctx)

	log := logger.GetCLILogger()
	log.Info().
		Str("command", cmd.Name()).
		Str("theme", theme.Name).
		Float64("speed", cfg.Pipeline.Speed).
		Msg("Session opened")

	return &session{
		cfg:       cfg,
		theme:     theme,
		loop:      loop,
		sched:     scheduler.Scale(loop, cfg.Pipeline.Speed),
		telemetry: tel,
	}, nil
}

// Close stops the loop, flushes spans and closes the log files
func (s *session) Close() {
	s.loop.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.telemetry.Shutdown(ctx)

	log := logger.GetCLILogger()
	log.Info().Msg("Session closed")
	_ = logger.CloseGlobal()
}

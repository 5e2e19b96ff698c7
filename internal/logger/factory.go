// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to config.yaml log.levels
// These ensure consistent logger names across the codebase

// GetPipelineLogger returns a logger for the pipeline runner
func GetPipelineLogger() zerolog.Logger {
	return GetLogger("pipeline")
}

// GetCatalogLogger returns a logger for theme and stage loading
func GetCatalogLogger() zerolog.Logger {
	return GetLogger("catalog")
}

// GetTUILogger returns a logger for TUI components
func GetTUILogger() zerolog.Logger {
	return GetLogger("tui")
}

// GetCLILogger returns a logger for command handlers
func GetCLILogger() zerolog.Logger {
	return GetLogger("cli")
}

// GetTelemetryLogger returns a logger for trace export
func GetTelemetryLogger() zerolog.Logger {
	return GetLogger("telemetry")
}

// GetReelLogger returns a logger for the demo reel
func GetReelLogger() zerolog.Logger {
	return GetLogger("reel")
}

// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/noldarim/showcase/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installGlobal swaps in a manager writing to buf for the duration of the test.
func installGlobal(t *testing.T, cfg *config.LogConfig) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	globalMu.Lock()
	prev := globalManager
	globalManager = NewManagerWithWriter(cfg, buf)
	globalMu.Unlock()
	t.Cleanup(func() {
		globalMu.Lock()
		globalManager = prev
		globalMu.Unlock()
	})
	return buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestStaticLoggerGetters(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	buf := installGlobal(t, &config.LogConfig{
		Level:  "info",
		Format: "json",
		Levels: map[string]string{
			"pipeline":  "debug",
			"catalog":   "warn",
			"tui":       "error",
			"cli":       "trace",
			"telemetry": "info",
		},
	})

	tests := []struct {
		name          string
		getterFunc    func() zerolog.Logger
		expectedPkg   string
		expectedLevel zerolog.Level
	}{
		{"pipeline_logger", GetPipelineLogger, "pipeline", zerolog.DebugLevel},
		{"catalog_logger", GetCatalogLogger, "catalog", zerolog.WarnLevel},
		{"tui_logger", GetTUILogger, "tui", zerolog.ErrorLevel},
		{"cli_logger", GetCLILogger, "cli", zerolog.TraceLevel},
		{"telemetry_logger", GetTelemetryLogger, "telemetry", zerolog.InfoLevel},
		{"reel_logger_uses_global_level", GetReelLogger, "reel", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.getterFunc()
			assert.Equal(t, tt.expectedLevel, l.GetLevel())

			buf.Reset()
			l.WithLevel(tt.expectedLevel).Msg("hello")
			entry := lastLine(t, buf)
			assert.Equal(t, tt.expectedPkg, entry["pkg"])
			assert.Equal(t, "hello", entry["message"])
		})
	}
}

func TestStaticLoggerGetters_Uninitialized(t *testing.T) {
	globalMu.Lock()
	prev := globalManager
	globalManager = nil
	globalMu.Unlock()
	defer func() {
		globalMu.Lock()
		globalManager = prev
		globalMu.Unlock()
	}()

	for _, getter := range []func() zerolog.Logger{
		GetPipelineLogger, GetCatalogLogger, GetTUILogger, GetCLILogger, GetTelemetryLogger, GetReelLogger,
	} {
		// Discard loggers must be usable without panicking.
		l := getter()
		l.Error().Str("test", "uninitialized").Msg("dropped")
	}
}

func TestStaticLoggerGetters_MatchGetLogger(t *testing.T) {
	installGlobal(t, &config.LogConfig{Level: "warn", Format: "json"})

	assert.Equal(t, GetLogger("pipeline").GetLevel(), GetPipelineLogger().GetLevel())
	assert.Equal(t, GetLogger("tui").GetLevel(), GetTUILogger().GetLevel())
	assert.Equal(t, zerolog.WarnLevel, GetCLILogger().GetLevel())
}

func BenchmarkStaticLoggerGetters(b *testing.B) {
	globalMu.Lock()
	prev := globalManager
	globalManager = NewManagerWithWriter(&config.LogConfig{Level: "info", Format: "json"}, &bytes.Buffer{})
	globalMu.Unlock()
	defer func() {
		globalMu.Lock()
		globalManager = prev
		globalMu.Unlock()
	}()

	b.Run("GetPipelineLogger", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = GetPipelineLogger()
		}
	})

	b.Run("Direct_GetLogger", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = GetLogger("pipeline")
		}
	})
}

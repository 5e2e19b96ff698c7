// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/noldarim/showcase/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.LogConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "console_json",
			config: &config.LogConfig{
				Level:   "info",
				Format:  "json",
				Output:  []config.LogOutputConfig{{Type: "console", Enabled: true}},
				Context: config.LogContextConfig{IncludeTimestamp: true},
			},
		},
		{
			name: "plain_file",
			config: &config.LogConfig{
				Level:  "debug",
				Format: "json",
				Output: []config.LogOutputConfig{
					{Type: "file", Enabled: true, Path: filepath.Join(t.TempDir(), "plain.log")},
				},
				Context: config.LogContextConfig{IncludeTimestamp: true, IncludeCaller: true},
			},
		},
		{
			name: "rotating_file_console_format",
			config: &config.LogConfig{
				Level:  "warn",
				Format: "console",
				Output: []config.LogOutputConfig{
					{
						Type:    "file",
						Enabled: true,
						Path:    filepath.Join(t.TempDir(), "nested", "rotating.log"),
						Rotate:  config.LogRotateConfig{MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1},
					},
				},
			},
		},
		{
			name: "unsupported_output",
			config: &config.LogConfig{
				Level:  "info",
				Output: []config.LogOutputConfig{{Type: "syslog", Enabled: true}},
			},
			expectError: true,
			errorMsg:    "unsupported output type: syslog",
		},
		{
			name: "file_without_path",
			config: &config.LogConfig{
				Level:  "info",
				Output: []config.LogOutputConfig{{Type: "file", Enabled: true}},
			},
			expectError: true,
			errorMsg:    "file output requires a path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.config)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.NoError(t, m.Close())
		})
	}
}

func TestManager_FileOutputWritesLines(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	path := filepath.Join(t.TempDir(), "out.log")
	m, err := NewManager(&config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "file", Enabled: true, Path: path}},
	})
	require.NoError(t, err)

	l := m.GetLogger("pipeline")
	l.Info().Str("stage", "build").Msg("stage started")
	l.Debug().Msg("below level")
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"pkg":"pipeline"`)
	assert.Contains(t, content, `"stage":"build"`)
	assert.NotContains(t, content, "below level")
}

func TestManager_DisabledOutputsUseFallback(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	m, err := NewManager(&config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "console", Enabled: false}},
	})
	require.NoError(t, err)
	defer m.Close()

	_, err = os.Stat(filepath.Join(dir, fallbackLogPath))
	assert.NoError(t, err, "fallback log file should exist")
}

func TestManager_GetLogger(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	buf := &bytes.Buffer{}
	m := NewManagerWithWriter(&config.LogConfig{
		Level:  "info",
		Format: "json",
		Levels: map[string]string{"catalog": "error"},
	}, buf)

	catalog := m.GetLogger("catalog")
	assert.Equal(t, zerolog.ErrorLevel, catalog.GetLevel())
	catalog.Warn().Msg("suppressed")
	assert.Empty(t, buf.String())

	tui := m.GetLogger("tui")
	assert.Equal(t, zerolog.InfoLevel, tui.GetLevel(), "packages without an entry use the global level")
	tui.Info().Msg("visible")
	assert.Contains(t, buf.String(), `"pkg":"tui"`)

	assert.Len(t, m.packageLoggers, 2)
	m.GetLogger("tui")
	assert.Len(t, m.packageLoggers, 2, "loggers are cached per package")
}

func TestManager_SetPackageLevel(t *testing.T) {
	m := NewManagerWithWriter(&config.LogConfig{Level: "info", Format: "json"}, &bytes.Buffer{})

	assert.Equal(t, zerolog.InfoLevel, m.GetLogger("pipeline").GetLevel())
	m.SetPackageLevel("pipeline", "debug")
	assert.Equal(t, zerolog.DebugLevel, m.GetLogger("pipeline").GetLevel())

	m.SetPackageLevel("reel", "warn")
	assert.Equal(t, zerolog.WarnLevel, m.GetLogger("reel").GetLevel(), "level applies to loggers created later")
	assert.Equal(t, "warn", m.config.Levels["reel"])
}

func TestManager_ThreadSafety(t *testing.T) {
	m := NewManagerWithWriter(&config.LogConfig{Level: "info", Format: "json"}, &syncBuffer{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pkg := fmt.Sprintf("pkg-%d", i%5)
			for j := 0; j < 50; j++ {
				l := m.GetLogger(pkg)
				l.Info().Int("j", j).Msg("concurrent")
				if j%10 == 0 {
					m.SetPackageLevel(pkg, "debug")
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.packageLoggers, 5)
}

func TestManager_Sampling(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	buf := &bytes.Buffer{}
	m := NewManagerWithWriter(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Sampling: config.LogSamplingConfig{Enabled: true, Initial: 2, Thereafter: 1000, Tick: time.Hour},
	}, buf)

	l := m.GetLogger("pipeline")
	for i := 0; i < 10; i++ {
		l.Info().Msg("tick")
	}
	lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1
	assert.Less(t, lines, 10)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"Warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"panic":   zerolog.PanicLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	require.NoError(t, CloseGlobal())

	path := filepath.Join(t.TempDir(), "global.log")
	cfg := &config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "file", Enabled: true, Path: path}},
	}
	require.NoError(t, Initialize(cfg))
	require.NoError(t, Initialize(&config.LogConfig{Level: "bogus"}), "second Initialize is a no-op")

	l := GetLogger("cli")
	l.Info().Msg("from global")
	require.NoError(t, CloseGlobal())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from global")

	// After close the global getter falls back to a discard logger.
	assert.NotPanics(t, func() {
		l := GetLogger("cli")
		l.Info().Msg("dropped")
	})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

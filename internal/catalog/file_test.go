// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTheme = `
name: release
title: Release Train
headline: Shipping Your Release
stages:
  - id: lint
    name: Lint
    agent: Linter
    script:
      - message: checking style
        delay_ms: 200
      - message: style ok
        delay_ms: 300
        level: success
  - id: ship
    name: Ship
    script:
      - message: registry rejected the image
        delay_ms: 100
        level: error
        fail: true
results:
  title: Released
  links:
    notes: https://example.com/notes
    artifact: https://example.com/artifact
reel:
  loop_ms: 4000
  scenes:
    - name: start
      caption: Go
      at_ms: 0
    - name: end
      caption: Done
      at_ms: 2000
`

func writeTheme(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadThemeFile(t *testing.T) {
	theme, err := LoadThemeFile(writeTheme(t, sampleTheme))
	require.NoError(t, err)

	assert.Equal(t, "release", theme.Name)
	assert.Equal(t, "Release Train", theme.Title)
	require.Len(t, theme.Stages, 2)

	lint := theme.Stages[0]
	assert.Equal(t, "Linter", lint.Agent)
	assert.Equal(t, models.LevelInfo, lint.Script[0].Level, "level defaults to info")
	assert.Equal(t, 300*time.Millisecond, lint.Script[1].Delay)

	ship := theme.Stages[1].Script[0]
	assert.True(t, ship.Fail)
	assert.Equal(t, models.LevelError, ship.Level)

	assert.Equal(t, []Link{
		{Label: "artifact", URL: "https://example.com/artifact"},
		{Label: "notes", URL: "https://example.com/notes"},
	}, theme.Results.Links)

	assert.Equal(t, 4*time.Second, theme.Reel.Loop)
	assert.Equal(t, 2*time.Second, theme.Reel.Scenes[1].At)
}

func TestLoadThemeFile_Defaults(t *testing.T) {
	theme, err := ParseTheme([]byte("name: tiny\nstages:\n  - id: x\n    name: X\n"))
	require.NoError(t, err)
	assert.Equal(t, "tiny", theme.Title)
	assert.Equal(t, "Running Your Pipeline", theme.Headline)
	assert.Empty(t, theme.Reel.Scenes)
}

func TestLoadThemeFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "name: [", wantErr: "failed to parse theme YAML"},
		{name: "no name", content: "stages:\n  - id: x\n    name: X\n", wantErr: "theme name is required"},
		{name: "no stages", content: "name: x\n", wantErr: "at least one stage"},
		{name: "bad level", content: "name: x\nstages:\n  - id: a\n    name: A\n    script:\n      - message: m\n        level: loud\n", wantErr: "unknown log level"},
		{name: "negative delay", content: "name: x\nstages:\n  - id: a\n    name: A\n    script:\n      - message: m\n        delay_ms: -5\n", wantErr: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadThemeFile(writeTheme(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadThemeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read theme file")
}

func TestResolve(t *testing.T) {
	theme, err := Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, theme.Name)

	theme, err = Resolve("contractguard", "")
	require.NoError(t, err)
	assert.Equal(t, "contractguard", theme.Name)

	theme, err = Resolve("contractguard", writeTheme(t, sampleTheme))
	require.NoError(t, err)
	assert.Equal(t, "release", theme.Name, "file wins over name")
}

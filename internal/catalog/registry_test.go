// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"testing"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStages() []StageDefinition {
	return []StageDefinition{
		{ID: "a", Name: "A", Script: []ScriptEntry{
			{Message: "start", Delay: 0, Level: models.LevelInfo},
			{Message: "done", Delay: 100 * time.Millisecond, Level: models.LevelSuccess},
		}},
		{ID: "b", Name: "B", Script: []ScriptEntry{
			{Message: "go", Delay: 0, Level: models.LevelInfo},
		}},
	}
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(twoStages())
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"a", "b"}, r.IDs())
	assert.Equal(t, 1, r.IndexOf("b"))
	assert.Equal(t, -1, r.IndexOf("zzz"))
	assert.Equal(t, "B", r.At(1).Name)
	assert.Equal(t, 100*time.Millisecond, r.TotalDelay())

	def, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Len(t, def.Script, 2)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		defs    []StageDefinition
		wantErr string
	}{
		{name: "empty", defs: nil, wantErr: "at least one stage"},
		{name: "missing id", defs: []StageDefinition{{Name: "A"}}, wantErr: "id is required"},
		{name: "missing name", defs: []StageDefinition{{ID: "a"}}, wantErr: "name is required"},
		{
			name:    "duplicate id",
			defs:    []StageDefinition{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}},
			wantErr: "duplicate id 'a'",
		},
		{
			name: "negative delay",
			defs: []StageDefinition{{ID: "a", Name: "A", Script: []ScriptEntry{
				{Message: "x", Delay: -time.Millisecond, Level: models.LevelInfo},
			}}},
			wantErr: "negative delay",
		},
		{
			name: "bad level",
			defs: []StageDefinition{{ID: "a", Name: "A", Script: []ScriptEntry{
				{Message: "x", Level: "loud"},
			}}},
			wantErr: "unknown level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistry_IsImmutable(t *testing.T) {
	defs := twoStages()
	r, err := NewRegistry(defs)
	require.NoError(t, err)

	defs[0].Script[0].Message = "mutated"
	assert.Equal(t, "start", r.Script("a")[0].Message)

	script := r.Script("a")
	script[0].Message = "mutated again"
	assert.Equal(t, "start", r.Script("a")[0].Message)

	stages := r.Stages()
	stages[1].Name = "changed"
	assert.Equal(t, "B", r.Stage("b").Name)
}

func TestRegistry_UnknownIDPanics(t *testing.T) {
	r, err := NewRegistry(twoStages())
	require.NoError(t, err)

	assert.Panics(t, func() { r.Stage("nope") })
	assert.Panics(t, func() { r.Script("nope") })
}

func TestBuiltinThemes(t *testing.T) {
	names := BuiltinNames()
	assert.Equal(t, []string{"agentbuilder", "contractguard"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			theme, err := Builtin(name)
			require.NoError(t, err)
			require.NoError(t, theme.Validate())

			r, err := theme.Registry()
			require.NoError(t, err)
			assert.Equal(t, 5, r.Len())
			assert.NotEmpty(t, theme.Results.Title)
			assert.Len(t, theme.Reel.Scenes, 8)
		})
	}

	_, err := Builtin("nope")
	assert.ErrorContains(t, err, "unknown theme")
}

func TestBuiltin_AgentBuilderScript(t *testing.T) {
	theme, err := Builtin("agentbuilder")
	require.NoError(t, err)
	r, err := theme.Registry()
	require.NoError(t, err)

	assert.Equal(t, []string{"research", "spec", "build", "review", "deploy"}, r.IDs())

	build := r.Stage("build")
	assert.Equal(t, "Engineering Agent (Cline)", build.Agent)
	assert.Len(t, build.Script, 5)
	assert.Equal(t, 5800*time.Millisecond, build.TotalDelay())

	review := r.Script("review")
	assert.Equal(t, models.LevelWarning, review[2].Level)
}

func TestBuiltin_ReturnsCopies(t *testing.T) {
	a, err := Builtin("agentbuilder")
	require.NoError(t, err)
	a.Stages[0].Name = "changed"

	b, err := Builtin("agentbuilder")
	require.NoError(t, err)
	assert.Equal(t, "Research", b.Stages[0].Name)
}

func TestReel_Validate(t *testing.T) {
	tests := []struct {
		name    string
		reel    Reel
		wantErr bool
	}{
		{name: "empty", reel: Reel{}},
		{name: "ok", reel: Reel{Loop: 3 * time.Second, Scenes: []Scene{{Name: "x"}, {Name: "y", At: time.Second}}}},
		{name: "late first", reel: Reel{Loop: time.Second, Scenes: []Scene{{Name: "x", At: 1}}}, wantErr: true},
		{name: "unordered", reel: Reel{Loop: 3 * time.Second, Scenes: []Scene{{Name: "x"}, {Name: "y"}}}, wantErr: true},
		{name: "loop too short", reel: Reel{Loop: time.Second, Scenes: []Scene{{Name: "x"}, {Name: "y", At: time.Second}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reel.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

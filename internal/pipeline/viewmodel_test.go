// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/noldarim/showcase/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewModel_Progress(t *testing.T) {
	h := newHarness(t, scenarioRegistry(t), Options{})
	vm := NewViewModel(h.runner)

	assert.Zero(t, vm.Progress(), "idle run has no progress")
	assert.Equal(t, 0, vm.Percent())

	require.NoError(t, h.runner.Start(context.Background(), "progress"))
	assert.Equal(t, 50, vm.Percent())

	h.clock.Advance(600 * time.Millisecond)
	assert.Equal(t, 100, vm.Percent())

	h.runToEnd()
	assert.InDelta(t, 1.0, vm.Progress(), 1e-9)
}

func TestPercent_Rounds(t *testing.T) {
	assert.Equal(t, 33, Percent(1.0/3))
	assert.Equal(t, 67, Percent(2.0/3))
	assert.Equal(t, 20, Percent(0.2))
}

func TestViewModel_ExpandedFollowsRunningStage(t *testing.T) {
	h := newHarness(t, scenarioRegistry(t), Options{})
	vm := NewViewModel(h.runner)

	_, ok := vm.Expanded()
	assert.False(t, ok, "nothing is expanded before the run starts")

	require.NoError(t, h.runner.Start(context.Background(), "follow"))
	st, ok := vm.Expanded()
	require.True(t, ok)
	assert.Equal(t, "a", st.ID)
	assert.True(t, vm.Snapshot().FollowActive)

	h.clock.Advance(600 * time.Millisecond)
	st, ok = vm.Expanded()
	require.True(t, ok)
	assert.Equal(t, "b", st.ID)
}

func TestViewModel_ManualSelectionHoldsUntilNextStage(t *testing.T) {
	h := newHarness(t, scenarioRegistry(t), Options{})
	vm := NewViewModel(h.runner)
	require.NoError(t, h.runner.Start(context.Background(), "manual"))

	require.NoError(t, vm.SetExpanded(""))
	_, ok := vm.Expanded()
	assert.False(t, ok)
	assert.False(t, vm.Snapshot().FollowActive)

	// stage a finishing does not touch the selection
	h.clock.Advance(100 * time.Millisecond)
	assert.Empty(t, vm.Snapshot().ExpandedID)

	// stage b starting resumes auto-follow
	h.clock.Advance(500 * time.Millisecond)
	snap := vm.Snapshot()
	assert.Equal(t, "b", snap.ExpandedID)
	assert.True(t, snap.FollowActive)
}

func TestViewModel_SetExpandedUnknown(t *testing.T) {
	h := newHarness(t, scenarioRegistry(t), Options{})
	vm := NewViewModel(h.runner)
	require.NoError(t, h.runner.Start(context.Background(), "unknown"))

	assert.ErrorIs(t, vm.SetExpanded("zzz"), ErrUnknownStage)
	snap := vm.Snapshot()
	assert.Equal(t, "a", snap.ExpandedID)
	assert.True(t, snap.FollowActive)
}

func TestViewModel_Toggle(t *testing.T) {
	h := newHarness(t, scenarioRegistry(t), Options{})
	vm := NewViewModel(h.runner)
	require.NoError(t, h.runner.Start(context.Background(), "toggle"))

	require.NoError(t, vm.Toggle("a"))
	assert.Empty(t, vm.Snapshot().ExpandedID, "toggling the expanded stage collapses it")

	require.NoError(t, vm.Toggle("b"))
	assert.Equal(t, "b", vm.Snapshot().ExpandedID, "a pending stage can be expanded")

	vm.Collapse()
	assert.Empty(t, vm.Snapshot().ExpandedID)

	assert.ErrorIs(t, vm.Toggle("zzz"), ErrUnknownStage)
}

func TestViewModel_SelectionEmitsEventOnlyOnChange(t *testing.T) {
	h := newHarness(t, scenarioRegistry(t), Options{})
	vm := NewViewModel(h.runner)
	require.NoError(t, h.runner.Start(context.Background(), "events"))

	n := h.rec.Len()
	require.NoError(t, vm.SetExpanded("a"))
	assert.Equal(t, n, h.rec.Len(), "re-selecting the expanded stage is silent")

	require.NoError(t, vm.SetExpanded("b"))
	events := h.rec.Events()
	require.Len(t, events, n+1)
	assert.Equal(t, protocol.ExpandedChanged, events[n].Type)
	assert.Equal(t, "b", events[n].Snapshot.ExpandedID)
}

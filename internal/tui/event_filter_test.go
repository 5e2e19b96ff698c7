// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"testing"

	"github.com/noldarim/showcase/internal/protocol"
	"github.com/stretchr/testify/assert"
)

func event(runID string, seq uint64) protocol.PipelineEvent {
	return protocol.PipelineEvent{
		Metadata: protocol.NewMetadata(runID, seq),
		Type:     protocol.LogAppended,
		RunID:    runID,
		Seq:      seq,
	}
}

func TestRunFilter(t *testing.T) {
	f := NewRunFilter()

	t.Run("drops everything before a run is active", func(t *testing.T) {
		assert.False(t, f.ShouldProcess(event("run-1", 1)))
	})

	f.Reset("run-1")

	t.Run("allows increasing sequence numbers", func(t *testing.T) {
		assert.True(t, f.ShouldProcess(event("run-1", 1)))
		assert.True(t, f.ShouldProcess(event("run-1", 2)))
		assert.True(t, f.ShouldProcess(event("run-1", 5)), "gaps are allowed")
	})

	t.Run("blocks duplicates and stragglers", func(t *testing.T) {
		assert.False(t, f.ShouldProcess(event("run-1", 5)))
		assert.False(t, f.ShouldProcess(event("run-1", 3)))
	})

	t.Run("blocks other runs", func(t *testing.T) {
		assert.False(t, f.ShouldProcess(event("run-0", 6)))
	})

	t.Run("reset starts a new sequence", func(t *testing.T) {
		f.Reset("run-2")
		assert.False(t, f.ShouldProcess(event("run-1", 6)), "events of the discarded run are stale")
		assert.True(t, f.ShouldProcess(event("run-2", 1)))
	})

	assert.Equal(t, 5, f.Dropped())
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"sync"

	"github.com/noldarim/showcase/internal/protocol"
)

// RunFilter drops events the TUI must not apply: events of a run other than
// the active one, and duplicates or stragglers whose sequence number is not
// newer than the last applied one.
type RunFilter struct {
	mu      sync.Mutex
	runID   string
	lastSeq uint64
	dropped int
}

// NewRunFilter creates a filter with no active run. It drops everything
// until Reset is called.
func NewRunFilter() *RunFilter {
	return &RunFilter{}
}

// Reset makes runID the active run
func (f *RunFilter) Reset(runID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runID = runID
	f.lastSeq = 0
}

// ShouldProcess returns true if the event belongs to the active run and is
// newer than every event applied so far
func (f *RunFilter) ShouldProcess(event protocol.PipelineEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.runID == "" || event.GetRunID() != f.runID || event.Seq <= f.lastSeq {
		f.dropped++
		return false
	}
	f.lastSeq = event.Seq
	return true
}

// Dropped returns how many events were rejected
func (f *RunFilter) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

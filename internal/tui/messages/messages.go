// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package messages holds the tea messages shared between screens.
package messages

import (
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/protocol"
)

// Navigation messages for screen transitions within the TUI

// SubmitMsg is sent by the input screen when a description was entered
type SubmitMsg struct {
	Description string
	Links       []string
}

// GoToInputMsg discards the current run and returns to the input screen
type GoToInputMsg struct{}

// QuitMsg cancels any active run and exits
type QuitMsg struct{}

// Run messages bridged from the runner

// EventMsg wraps a lifecycle event of a run
type EventMsg struct {
	Event protocol.PipelineEvent
}

// RunCompletedMsg is delivered once when a run completes
type RunCompletedMsg struct {
	Snapshot models.Snapshot
}

// RunFailedMsg is delivered once when a run halts on a failed stage
type RunFailedMsg struct {
	RunID   string
	StageID string
	Reason  string
}

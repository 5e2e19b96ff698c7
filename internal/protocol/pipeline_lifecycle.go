// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"github.com/noldarim/showcase/internal/models"
)

// PipelineEventType defines the type of pipeline lifecycle event
type PipelineEventType string

const (
	// RunStarted - the run left idle
	RunStarted PipelineEventType = "run_started"
	// StageStarted - a stage started running
	StageStarted PipelineEventType = "stage_started"
	// LogAppended - a scripted log line was emitted for the running stage
	LogAppended PipelineEventType = "log_appended"
	// StageCompleted - a stage replayed its whole script
	StageCompleted PipelineEventType = "stage_completed"
	// StageFailed - a stage emitted a failing entry
	StageFailed PipelineEventType = "stage_failed"
	// ExpandedChanged - the stage selected for detail viewing changed
	ExpandedChanged PipelineEventType = "expanded_changed"
	// RunCompleted - every stage succeeded and the completion delay elapsed
	RunCompleted PipelineEventType = "run_completed"
	// RunFailed - the run halted on a failed stage
	RunFailed PipelineEventType = "run_failed"
	// RunCancelled - the run was torn down before it finished
	RunCancelled PipelineEventType = "run_cancelled"
)

// Terminal reports whether no further events follow this one for the run
func (t PipelineEventType) Terminal() bool {
	return t == RunCompleted || t == RunFailed || t == RunCancelled
}

// PipelineEvent represents any state change of a run. Every event carries a
// full snapshot taken right after the change, so consumers never need to
// reconstruct state from earlier events.
type PipelineEvent struct {
	Metadata
	Type  PipelineEventType `json:"type"`
	RunID string            `json:"run_id"`
	Seq   uint64            `json:"seq"`

	// Stage info (populated for stage and log events)
	StageID    string `json:"stage_id,omitempty"`
	StageIndex int    `json:"stage_index"`

	// Entry is the emitted line (LogAppended and StageFailed)
	Entry *models.LogEntry `json:"entry,omitempty"`

	// Reason explains a StageFailed or RunFailed event
	Reason string `json:"reason,omitempty"`

	Snapshot models.Snapshot `json:"snapshot"`
}

func (e PipelineEvent) GetMetadata() Metadata {
	return e.Metadata
}

// GetRunID allows filters to scope events to a run without a type switch
func (e PipelineEvent) GetRunID() string {
	return e.RunID
}

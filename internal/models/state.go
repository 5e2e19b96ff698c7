// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package models holds the run-time state of a simulated pipeline run.
// Everything here is plain data: the runner owns the live copy and hands out
// Snapshots, which are deep copies safe to keep and render.
package models

import (
	"fmt"
	"time"
)

// LogLevel is the severity of a scripted log line
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelSuccess LogLevel = "success"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// Valid reports whether l is one of the known levels
func (l LogLevel) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}

// ParseLogLevel converts a string to a LogLevel. Empty input means info.
func ParseLogLevel(s string) (LogLevel, error) {
	if s == "" {
		return LevelInfo, nil
	}
	l := LogLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// StageStatus represents the status of a single stage
type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageRunning StageStatus = "running"
	StageSuccess StageStatus = "success"
	StageError   StageStatus = "error"
)

// Terminal reports whether the stage can no longer change status
func (s StageStatus) Terminal() bool {
	return s == StageSuccess || s == StageError
}

// RunStatus represents the status of a whole run
type RunStatus string

const (
	RunIdle      RunStatus = "idle"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// Finished reports whether the run reached a final state
func (s RunStatus) Finished() bool {
	return s == RunCompleted || s == RunFailed || s == RunCancelled
}

// LogEntry is one emitted log line
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     LogLevel  `json:"level"`
}

// StageState is the mutable state of one stage during a run.
// Zero StartTime/EndTime mean the value has not been set yet.
type StageState struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Agent       string      `json:"agent,omitempty"`
	Status      StageStatus `json:"status"`
	Logs        []LogEntry  `json:"logs"`
	StartTime   time.Time   `json:"start_time,omitzero"`
	EndTime     time.Time   `json:"end_time,omitzero"`
}

// Duration returns how long the stage ran, or zero if it has not finished
func (s StageState) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Failure describes why a run halted
type Failure struct {
	StageID string `json:"stage_id"`
	Reason  string `json:"reason"`
}

// Snapshot is a point-in-time copy of a run
type Snapshot struct {
	RunID        string       `json:"run_id"`
	Theme        string       `json:"theme,omitempty"`
	Description  string       `json:"description"`
	Status       RunStatus    `json:"status"`
	Stages       []StageState `json:"stages"`
	CurrentIndex int          `json:"current_index"`
	ExpandedID   string       `json:"expanded_id,omitempty"`
	FollowActive bool         `json:"follow_active"`
	StartedAt    time.Time    `json:"started_at,omitzero"`
	FinishedAt   time.Time    `json:"finished_at,omitzero"`
	Failure      *Failure     `json:"failure,omitempty"`
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Stages = make([]StageState, len(s.Stages))
	for i, st := range s.Stages {
		st.Logs = append([]LogEntry(nil), st.Logs...)
		out.Stages[i] = st
	}
	if s.Failure != nil {
		f := *s.Failure
		out.Failure = &f
	}
	return out
}

// Stage returns the state of the stage with the given id
func (s Snapshot) Stage(id string) (StageState, bool) {
	for _, st := range s.Stages {
		if st.ID == id {
			return st, true
		}
	}
	return StageState{}, false
}

// Expanded returns the stage currently selected for detail viewing
func (s Snapshot) Expanded() (StageState, bool) {
	if s.ExpandedID == "" {
		return StageState{}, false
	}
	return s.Stage(s.ExpandedID)
}

// Progress is the overall completion fraction in [0,1].
// An idle run has made no progress; a completed run is done regardless of index.
func (s Snapshot) Progress() float64 {
	total := len(s.Stages)
	if total == 0 || s.Status == RunIdle {
		return 0
	}
	if s.Status == RunCompleted {
		return 1
	}
	p := float64(s.CurrentIndex+1) / float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Elapsed returns the run duration so far, measured against now for live runs
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if !s.FinishedAt.IsZero() {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// CountByStatus returns how many stages are in the given status
func (s Snapshot) CountByStatus(status StageStatus) int {
	n := 0
	for _, st := range s.Stages {
		if st.Status == status {
			n++
		}
	}
	return n
}

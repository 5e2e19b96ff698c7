// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipelinesummary

import (
	"testing"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFromSnapshot(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	snap := models.Snapshot{
		Status:     models.RunFailed,
		StartedAt:  start,
		FinishedAt: start.Add(75 * time.Second),
		Stages: []models.StageState{
			{ID: "a", Name: "Research", Agent: "Planner", Status: models.StageSuccess, Logs: make([]models.LogEntry, 3)},
			{ID: "b", Name: "Build", Agent: "Coder", Status: models.StageError, Logs: make([]models.LogEntry, 2)},
			{ID: "c", Name: "Deploy", Agent: "Coder", Status: models.StagePending},
		},
		Failure: &models.Failure{StageID: "b", Reason: "tests failed"},
	}

	d := FromSnapshot(snap)
	assert.Equal(t, 75*time.Second, d.Duration)
	assert.Equal(t, 3, d.TotalStages)
	assert.Equal(t, 1, d.CompletedStages)
	assert.Equal(t, 5, d.LogLines)
	assert.Equal(t, "Build", d.FailedStage)
	assert.Equal(t, "tests failed", d.ErrorMessage)
	assert.Equal(t, []string{"Planner", "Coder"}, d.Agents)

	view := New().SetData(d).View()
	assert.Contains(t, view, "Failed")
	assert.Contains(t, view, "1m 15s")
	assert.Contains(t, view, "1/3")
	assert.Contains(t, view, "Build failed")
	assert.Contains(t, view, "Error: tests failed")
}

func TestView_Completed(t *testing.T) {
	view := New().SetData(SummaryData{Status: models.RunCompleted, TotalStages: 5, CompletedStages: 5}).View()
	assert.Contains(t, view, "✓")
	assert.Contains(t, view, "Completed")
	assert.Contains(t, view, "5/5")
	assert.NotContains(t, view, "Error")
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Renders the pipeline summary for a recorded run, or for mock data when no
// transcript is given.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/transcript"
	"github.com/noldarim/showcase/internal/tui/components/pipelinesummary"
)

func main() {
	path := flag.String("transcript", os.Getenv("SHOWCASE_TRANSCRIPT"), "JSONL transcript to read the last snapshot from")
	flag.Parse()

	snap := mockSnapshot()
	if *path != "" {
		s, err := transcript.LastSnapshot(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "using mock data: %v\n", err)
		} else {
			snap = s
		}
	}

	component := pipelinesummary.New().SetData(pipelinesummary.FromSnapshot(snap))
	fmt.Println(component.View())
}

func mockSnapshot() models.Snapshot {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	stage := func(id, name string, from, to int) models.StageState {
		return models.StageState{
			ID:        id,
			Name:      name,
			Status:    models.StageSuccess,
			StartTime: start.Add(time.Duration(from) * time.Second),
			EndTime:   start.Add(time.Duration(to) * time.Second),
			Logs:      []models.LogEntry{{Timestamp: start.Add(time.Duration(to) * time.Second), Message: name + " done", Level: models.LevelSuccess}},
		}
	}
	return models.Snapshot{
		RunID:        "mock-run",
		Theme:        "agentbuilder",
		Description:  "A todo app with user accounts",
		Status:       models.RunCompleted,
		CurrentIndex: 2,
		StartedAt:    start,
		FinishedAt:   start.Add(42 * time.Second),
		Stages: []models.StageState{
			stage("research", "Research", 0, 9),
			stage("architecture", "Architecture", 10, 24),
			stage("build", "Build", 25, 41),
		},
	}
}

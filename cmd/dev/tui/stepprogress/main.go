// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Renders the step progress component for a recorded run. Pass a transcript
// written with --transcript and snapshots enabled, or nothing for mock data.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/transcript"
	"github.com/noldarim/showcase/internal/tui/components/stepprogress"
)

func main() {
	path := flag.String("transcript", os.Getenv("SHOWCASE_TRANSCRIPT"), "JSONL transcript to read the last snapshot from")
	width := flag.Int("width", 20, "bar width")
	flag.Parse()

	component := stepprogress.New().SetSnapshot(loadSnapshot(*path)).SetWidth(*width)
	fmt.Println(component.View())
}

func loadSnapshot(path string) models.Snapshot {
	if path == "" {
		return mockSnapshot()
	}
	s, err := transcript.LastSnapshot(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "using mock data: %v\n", err)
		return mockSnapshot()
	}
	return s
}

func mockSnapshot() models.Snapshot {
	start := time.Now().Add(-12 * time.Second)
	return models.Snapshot{
		Description:  "todo app",
		Status:       models.RunRunning,
		CurrentIndex: 2,
		StartedAt:    start,
		Stages: []models.StageState{
			{ID: "setup", Name: "Setup", Status: models.StageSuccess},
			{ID: "review", Name: "Code Review", Status: models.StageSuccess},
			{ID: "implement", Name: "Implementation", Status: models.StageRunning},
			{ID: "test", Name: "Testing", Status: models.StagePending},
		},
	}
}

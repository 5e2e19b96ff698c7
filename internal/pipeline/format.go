// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"fmt"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/protocol"
)

// StatusGlyph returns the single-character marker of a stage status
func StatusGlyph(status models.StageStatus) string {
	switch status {
	case models.StagePending:
		return "○"
	case models.StageRunning:
		return "●"
	case models.StageSuccess:
		return "✓"
	case models.StageError:
		return "✗"
	default:
		return "?"
	}
}

// FormatEvent formats an event as a human-readable progress line. Events that
// carry nothing worth printing (selection changes) yield an empty string.
func FormatEvent(e protocol.PipelineEvent) string {
	snap := e.Snapshot
	total := len(snap.Stages)
	stage, _ := snap.Stage(e.StageID)

	switch e.Type {
	case protocol.RunStarted:
		return fmt.Sprintf("▶ %s (%d stages)", snap.Description, total)
	case protocol.StageStarted:
		line := fmt.Sprintf("  %s [%d/%d] %s", StatusGlyph(models.StageRunning), e.StageIndex+1, total, stage.Name)
		if stage.Agent != "" {
			line += " · " + stage.Agent
		}
		return line
	case protocol.LogAppended:
		if e.Entry == nil {
			return ""
		}
		return fmt.Sprintf("      [%s] %s", FormatClock(e.Entry.Timestamp), e.Entry.Message)
	case protocol.StageCompleted:
		return fmt.Sprintf("  %s %s complete (%s)", StatusGlyph(models.StageSuccess), stage.Name, FormatDuration(stage.Duration()))
	case protocol.StageFailed:
		return fmt.Sprintf("  %s %s failed: %s", StatusGlyph(models.StageError), stage.Name, e.Reason)
	case protocol.RunCompleted:
		return fmt.Sprintf("✓ pipeline completed in %s", FormatDuration(snap.Elapsed(snap.FinishedAt)))
	case protocol.RunFailed:
		return fmt.Sprintf("✗ pipeline failed at %s: %s", stage.Name, e.Reason)
	case protocol.RunCancelled:
		current := snap.Stages[min(snap.CurrentIndex, total-1)]
		return fmt.Sprintf("■ pipeline cancelled during %s", current.Name)
	default:
		return ""
	}
}

// FormatClock renders a wall-clock time as HH:MM:SS
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

// FormatDuration renders d rounded to a tenth of a second, or to the second
// once it exceeds a minute
func FormatDuration(d time.Duration) string {
	if d >= time.Minute {
		return d.Round(time.Second).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

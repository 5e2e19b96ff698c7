// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipelinesummary

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/tui/components/elapsedtimer"
	"github.com/samber/lo"
)

// SummaryData holds all the data for the pipeline summary
type SummaryData struct {
	Status          models.RunStatus
	Duration        time.Duration
	TotalStages     int
	CompletedStages int
	FailedStage     string
	ErrorMessage    string
	LogLines        int
	Agents          []string
}

// FromSnapshot derives summary data from a finished or running snapshot
func FromSnapshot(s models.Snapshot) SummaryData {
	d := SummaryData{
		Status:          s.Status,
		TotalStages:     len(s.Stages),
		CompletedStages: s.CountByStatus(models.StageSuccess),
		LogLines:        lo.SumBy(s.Stages, func(st models.StageState) int { return len(st.Logs) }),
		Agents: lo.Uniq(lo.FilterMap(s.Stages, func(st models.StageState, _ int) (string, bool) {
			return st.Agent, st.Agent != ""
		})),
	}
	if !s.FinishedAt.IsZero() {
		d.Duration = s.Elapsed(s.FinishedAt)
	}
	if s.Failure != nil {
		if st, ok := s.Stage(s.Failure.StageID); ok {
			d.FailedStage = st.Name
		}
		d.ErrorMessage = s.Failure.Reason
	}
	return d
}

// Model represents the pipeline summary component
type Model struct {
	data SummaryData
}

// New creates a new pipeline summary model
func New() Model {
	return Model{}
}

// SetData updates the summary data
func (m Model) SetData(data SummaryData) Model {
	m.data = data
	return m
}

// Data returns the summary data
func (m Model) Data() SummaryData {
	return m.data
}

// View renders the pipeline summary
func (m Model) View() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	fail := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	lines := []string{renderStatus(m.data.Status)}

	if m.data.Duration > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", label.Render("Duration:"), value.Render(elapsedtimer.Format(m.data.Duration))))
	}

	stages := fmt.Sprintf("%d/%d", m.data.CompletedStages, m.data.TotalStages)
	if m.data.FailedStage != "" {
		stages += fail.Render(fmt.Sprintf(" (%s failed)", m.data.FailedStage))
	}
	lines = append(lines, fmt.Sprintf("%s %s", label.Render("Stages:"), value.Render(stages)))

	if m.data.LogLines > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", label.Render("Log lines:"), value.Render(fmt.Sprint(m.data.LogLines))))
	}
	if len(m.data.Agents) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", label.Render("Agents:"), value.Render(strings.Join(m.data.Agents, ", "))))
	}

	if m.data.ErrorMessage != "" && m.data.Status == models.RunFailed {
		lines = append(lines, fail.Render("Error: "+m.data.ErrorMessage))
	}

	return strings.Join(lines, "\n")
}

func renderStatus(s models.RunStatus) string {
	success := lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	fail := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	switch s {
	case models.RunCompleted:
		return success.Render("✓") + " " + success.Bold(true).Render("Completed")
	case models.RunFailed:
		return fail.Render("✗") + " " + fail.Bold(true).Render("Failed")
	case models.RunCancelled:
		return muted.Render("■") + " " + muted.Bold(true).Render("Cancelled")
	case models.RunRunning:
		return accent.Render("◦") + " " + accent.Bold(true).Render("Running")
	default:
		return muted.Render("○") + " " + muted.Bold(true).Render("Idle")
	}
}

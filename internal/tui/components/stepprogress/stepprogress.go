// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stepprogress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/showcase/internal/models"
)

// Model renders a compact bar of stage statuses with the current stage name
type Model struct {
	stages []models.StageState
	status models.RunStatus
	width  int
}

// New creates a new step progress model
func New() Model {
	return Model{width: 20}
}

// SetSnapshot takes stages and run status from a run snapshot
func (m Model) SetSnapshot(s models.Snapshot) Model {
	m.stages = s.Stages
	m.status = s.Status
	return m
}

// SetWidth sets the progress bar width
func (m Model) SetWidth(w int) Model {
	if w > 0 {
		m.width = w
	}
	return m
}

// View renders: [▓▓▓▓▓▒░░░░] 2/4 Build
func (m Model) View() string {
	if len(m.stages) == 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	success := lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	fail := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	total := len(m.stages)
	done := 0
	current := -1
	for i, s := range m.stages {
		switch s.Status {
		case models.StageSuccess:
			done++
		case models.StageRunning, models.StageError:
			current = i
		}
	}

	// A running stage counts as half done.
	filled := done * m.width / total
	if current >= 0 {
		filled = (done*m.width + m.width/2) / total
	}

	var bar strings.Builder
	for i := 0; i < m.width; i++ {
		if i < filled {
			bar.WriteString(success.Render("▓"))
		} else {
			bar.WriteString(dim.Render("░"))
		}
	}

	step := done
	label := ""
	switch {
	case current >= 0 && m.stages[current].Status == models.StageError:
		step = current + 1
		label = fail.Render(m.stages[current].Name + " ✗")
	case current >= 0:
		step = current + 1
		label = accent.Render(m.stages[current].Name)
	case m.status == models.RunCompleted || done == total:
		label = success.Render("Complete ✓")
	case m.status == models.RunCancelled:
		label = dim.Render("Cancelled")
	}

	return strings.TrimRight(fmt.Sprintf("[%s] %s %s", bar.String(), dim.Render(fmt.Sprintf("%d/%d", step, total)), label), " ")
}

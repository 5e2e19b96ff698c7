// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectinput

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/showcase/internal/tui/layout"
)

// View renders the input screen
func (m Model) View() string {
	intro := lipgloss.NewStyle().
		Foreground(layout.MutedColor).
		Margin(0, 0, 1, 0).
		Render("Describe the project and the pipeline takes it from there.")

	stages := make([]string, 0, len(m.theme.Stages))
	for i, st := range m.theme.Stages {
		stages = append(stages, layout.MutedStyle.Render(fmt.Sprintf("%d. ", i+1))+st.Name)
	}
	pipeline := lipgloss.NewStyle().Margin(1, 0, 0, 0).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			append([]string{layout.SectionStyle.Render("Pipeline")}, stages...)...),
	)

	content := lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, intro, m.form.View(), pipeline),
	)
	return layout.RenderLayout(content, m.GetLayoutInfo(), m.width, m.height)
}


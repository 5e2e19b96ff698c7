// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package demo

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/showcase/internal/tui/layout"
)

var captionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(layout.TextColor).
	Margin(1, 0)

// View renders the demo screen
func (m Model) View() string {
	if !m.shown {
		return layout.RenderLayout(layout.MutedStyle.Render("  Loading…"), m.GetLayoutInfo(), m.width, m.height)
	}

	f := m.frame
	scenes := make([]string, 0, len(m.theme.Reel.Scenes))
	for i, s := range m.theme.Reel.Scenes {
		marker, style := "○", layout.MutedStyle
		switch {
		case i == f.Index:
			marker, style = "●", layout.SuccessStyle
		case i < f.Index:
			marker = "✓"
		}
		scenes = append(scenes, style.Render(marker+" "+s.Name))
	}

	position := float64(f.Index+1) / float64(max(1, f.Total))
	content := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		captionStyle.Render(f.Scene.Caption),
		fmt.Sprintf("%s  %s", m.bar.ViewAs(position), layout.MutedStyle.Render(
			fmt.Sprintf("scene %d/%d · loop %d", f.Index+1, f.Total, f.Loop+1))),
		"",
		lipgloss.JoinVertical(lipgloss.Left, scenes...),
	))
	return layout.RenderLayout(content, m.GetLayoutInfo(), m.width, m.height)
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package results

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/showcase/internal/tui/components/card"
	"github.com/noldarim/showcase/internal/tui/layout"
)

// View renders the results screen
func (m Model) View() string {
	content := lipgloss.NewStyle().Padding(0, 2).Render(m.content.View())
	return layout.RenderLayout(content, m.GetLayoutInfo(), m.width, m.height)
}

func (m Model) renderBody() string {
	r := m.theme.Results
	width := max(20, m.width-4)

	var sections []string
	if r.Summary != "" {
		sections = append(sections, lipgloss.NewStyle().Width(width).Render(r.Summary), "")
	}

	sections = append(sections, card.RenderSimple("Run", m.summary.View()))

	if len(r.Links) > 0 {
		lines := make([]string, 0, len(r.Links))
		for _, l := range r.Links {
			lines = append(lines, layout.HelpKeyStyle.Render(l.Label)+"  "+layout.MutedStyle.Render(l.URL))
		}
		sections = append(sections, section("Deliverables", lines))
	}
	sections = appendList(sections, "Highlights", "✓", r.Highlights)
	sections = appendList(sections, "Trade-offs", "•", r.Tradeoffs)
	sections = appendList(sections, "Next Steps", "→", r.NextSteps)
	if len(r.Stack) > 0 {
		sections = append(sections, section("Stack", []string{strings.Join(r.Stack, " · ")}))
	}
	sections = appendList(sections, "Your References", "•", m.links)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func appendList(sections []string, title, bullet string, items []string) []string {
	if len(items) == 0 {
		return sections
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, layout.MutedStyle.Render(bullet)+" "+item)
	}
	return append(sections, section(title, lines))
}

func section(title string, lines []string) string {
	return lipgloss.NewStyle().Margin(1, 0, 0, 0).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			append([]string{layout.SectionStyle.Render(title)}, lines...)...),
	)
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/pipeline"
	"github.com/noldarim/showcase/internal/tui/components/card"
	"github.com/noldarim/showcase/internal/tui/layout"
)

const stoppedGlyph = "■"

var (
	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("239"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	timeStyle = lipgloss.NewStyle().
			Foreground(layout.MutedColor)
)

// View renders the dashboard
func (m Model) View() string {
	sections := []string{m.renderOverall()}
	for i, st := range m.snap.Stages {
		sections = append(sections, m.renderStage(i, st))
	}
	if f := m.snap.Failure; f != nil {
		sections = append(sections, m.renderFailure(*f))
	}

	// Status bar: step progress │ elapsed time
	statusBar := statusBarStyle.Render(strings.Join([]string{m.steps.View(), m.timer.View()}, " │ "))
	sections = append(sections, separatorStyle.Render(strings.Repeat("─", max(0, m.width-4))), statusBar)

	content := lipgloss.NewStyle().Padding(0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
	return layout.RenderLayout(content, m.GetLayoutInfo(), m.width, m.height)
}

func (m Model) statusLine() string {
	if m.snap.Description == "" {
		return ""
	}
	desc := m.snap.Description
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		desc = desc[:i] + "…"
	}
	if len(m.links) > 0 {
		desc += fmt.Sprintf("  (%d links)", len(m.links))
	}
	return desc
}

func (m Model) renderOverall() string {
	pct := pipeline.Percent(m.snap.Progress())
	label := layout.SectionStyle.Render("Overall Progress")
	return lipgloss.NewStyle().Margin(0, 0, 1, 0).Render(
		fmt.Sprintf("%s  %s %3d%%", label, m.bar.ViewAs(m.snap.Progress()), pct),
	)
}

func (m Model) renderStage(i int, st models.StageState) string {
	glyph := pipeline.StatusGlyph(st.Status)
	if st.Status == models.StageRunning {
		glyph = m.spinner.View()
		// a cancelled run leaves its stage running
		if m.snap.Status != models.RunRunning {
			glyph = stoppedGlyph
		}
	}
	title := glyph + " " + st.Name
	if st.Agent != "" {
		title += layout.MutedStyle.Render(" · " + st.Agent)
	}

	aside := ""
	if !st.StartTime.IsZero() {
		aside = pipeline.FormatClock(st.StartTime)
		if !st.EndTime.IsZero() {
			aside += " – " + pipeline.FormatClock(st.EndTime)
		}
		aside = timeStyle.Render(aside)
	}

	body := ""
	if st.ID == m.snap.ExpandedID && len(st.Logs) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left,
			layout.MutedStyle.Render(st.Description),
			"",
			m.logs.View(),
		)
	}

	style := card.DefaultStyle()
	style.BorderColor = layout.StatusColor(st.Status)
	style.Width = max(20, m.width-4)
	style.Focused = i == m.cursor
	return card.Render(title, aside, body, style)
}

func (m Model) renderFailure(f models.Failure) string {
	name := f.StageID
	if st, ok := m.snap.Stage(f.StageID); ok {
		name = st.Name
	}
	return lipgloss.NewStyle().Margin(1, 0, 0, 0).Render(
		layout.ErrorStyle.Render(fmt.Sprintf("✗ %s failed: %s", name, f.Reason)) + "\n" +
			layout.MutedStyle.Render("press r to start over"),
	)
}

func renderLogLines(entries []models.LogEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		ts := timeStyle.Render("[" + pipeline.FormatClock(e.Timestamp) + "]")
		lines = append(lines, ts+" "+layout.LevelStyle(e.Level).Render(e.Message))
	}
	return strings.Join(lines, "\n")
}

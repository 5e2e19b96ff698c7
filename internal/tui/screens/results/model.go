// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package results

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/tui/components/pipelinesummary"
	"github.com/noldarim/showcase/internal/tui/layout"
	"github.com/noldarim/showcase/internal/tui/messages"
)

type keyMap struct {
	Scroll  key.Binding
	Iterate key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Scroll: key.NewBinding(
		key.WithKeys("up", "down", "k", "j", "pgup", "pgdown"),
		key.WithHelp("↑/↓", "scroll"),
	),
	Iterate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "iterate"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model shows the outcome of a completed run
type Model struct {
	theme   catalog.Theme
	snap    models.Snapshot
	links   []string
	summary pipelinesummary.Model
	content viewport.Model

	width  int
	height int
}

// NewModel creates the results screen for a finished run. links are the
// reference links the user entered with the description.
func NewModel(theme catalog.Theme, snap models.Snapshot, links []string) Model {
	m := Model{
		theme:   theme,
		snap:    snap,
		links:   links,
		summary: pipelinesummary.New().SetData(pipelinesummary.FromSnapshot(snap)),
		content: viewport.New(80, 20),
		width:   80,
		height:  24,
	}
	m.content.SetContent(m.renderBody())
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Snapshot returns the run the screen reports on
func (m Model) Snapshot() models.Snapshot {
	return m.snap
}

// GetLayoutInfo returns layout information for the results screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	return layout.LayoutInfo{
		Title:       m.theme.Results.Title,
		Breadcrumbs: []string{m.theme.Title, "Results"},
		Status:      m.snap.Description,
		HelpItems:   layout.HelpFromBindings(keys.Scroll, keys.Iterate, keys.Quit),
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	area := layout.GetContentArea(m.GetLayoutInfo(), width, height)
	m.content.Width = max(10, width-4)
	m.content.Height = max(1, area.Height)
	m.content.SetContent(m.renderBody())
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			return m, func() tea.Msg { return messages.QuitMsg{} }
		case key.Matches(msg, keys.Iterate):
			return m, func() tea.Msg { return messages.GoToInputMsg{} }
		}
	}

	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package demo

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/reel"
	"github.com/noldarim/showcase/internal/scheduler"
	"github.com/noldarim/showcase/internal/tui/layout"
	"github.com/noldarim/showcase/internal/tui/messages"
)

// FrameMsg is posted each time the reel moves to a scene
type FrameMsg struct {
	Frame reel.Frame
}

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model plays a theme's demo reel in a loop
type Model struct {
	ctx    context.Context
	theme  catalog.Theme
	player *reel.Player
	frame  reel.Frame
	shown  bool
	bar    progress.Model

	width  int
	height int
}

// NewModel creates a demo screen. Frames are posted to box and must be fed
// back through Update.
func NewModel(ctx context.Context, theme catalog.Theme, sched scheduler.Scheduler, box *messages.Mailbox) (Model, error) {
	player, err := reel.New(sched, theme.Reel, func(f reel.Frame) {
		box.Post(FrameMsg{Frame: f})
	})
	if err != nil {
		return Model{}, err
	}
	return Model{
		ctx:    ctx,
		theme:  theme,
		player: player,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		width:  80,
		height: 24,
	}, nil
}

// Init starts the reel
func (m Model) Init() tea.Cmd {
	if err := m.player.Start(m.ctx); err != nil {
		log := logger.GetTUILogger().With().Str("component", "demo").Logger()
		log.Warn().Err(err).Msg("Reel not started")
	}
	return nil
}

// Frame returns the scene on screen and whether one was shown yet
func (m Model) Frame() (reel.Frame, bool) {
	return m.frame, m.shown
}

// Stop halts the reel
func (m Model) Stop() {
	m.player.Stop()
}

// GetLayoutInfo returns layout information for the demo screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	return layout.LayoutInfo{
		Title:       m.theme.Title,
		Breadcrumbs: []string{m.theme.Title, "Demo"},
		Status:      m.theme.Tagline,
		HelpItems:   layout.HelpFromBindings(keys.Quit),
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(10, min(60, width-8))
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.frame = msg.Frame
		m.shown = true
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.player.Stop()
			return m, func() tea.Msg { return messages.QuitMsg{} }
		}
	}
	return m, nil
}

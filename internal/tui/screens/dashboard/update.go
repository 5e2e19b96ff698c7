// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/protocol"
	"github.com/noldarim/showcase/internal/tui/components/elapsedtimer"
	"github.com/noldarim/showcase/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.EventMsg:
		m = m.apply(msg.Event.Snapshot)
		// a new stage resumes auto-follow, so the cursor jumps with it
		if msg.Event.Type == protocol.StageStarted {
			m.cursor = msg.Event.StageIndex
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case elapsedtimer.TickMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	log := logger.GetTUILogger().With().Str("component", "dashboard").Logger()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, func() tea.Msg { return messages.QuitMsg{} }

	case key.Matches(msg, keys.Iterate):
		if m.canIterate() {
			return m, func() tea.Msg { return messages.GoToInputMsg{} }
		}

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.snap.Stages)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Toggle):
		if len(m.snap.Stages) == 0 {
			break
		}
		id := m.snap.Stages[m.cursor].ID
		if err := m.vm.Toggle(id); err != nil {
			log.Warn().Err(err).Str("stage", id).Msg("Toggle failed")
			break
		}
		m.logs.GotoBottom()
		m = m.apply(m.vm.Snapshot())

	case key.Matches(msg, keys.Collapse):
		m.vm.Collapse()
		m = m.apply(m.vm.Snapshot())

	case key.Matches(msg, keys.ScrollUp), key.Matches(msg, keys.ScrollDn):
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	return m, nil
}

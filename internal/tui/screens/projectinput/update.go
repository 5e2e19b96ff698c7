// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectinput

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Quit) {
		return m, func() tea.Msg { return messages.QuitMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	description := strings.TrimSpace(m.form.GetString("description"))
	if description == "" {
		description = strings.TrimSpace(m.description)
	}
	links := m.form.GetString("links")
	if links == "" {
		links = m.links
	}
	submit := messages.SubmitMsg{Description: description, Links: ParseLinks(links)}

	log := logger.GetTUILogger().With().Str("component", "projectinput").Logger()
	log.Info().Int("description_len", len(description)).Int("links", len(submit.Links)).Msg("Description submitted")

	return m, func() tea.Msg { return submit }
}

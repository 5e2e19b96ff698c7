// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectinput

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/tui/layout"
	"github.com/samber/lo"
)

type keyMap struct {
	Next   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start pipeline"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// Model is the description input screen
type Model struct {
	theme       catalog.Theme
	form        *huh.Form
	description string
	links       string
	width       int
	height      int
}

// NewModel creates the input screen for a theme
func NewModel(theme catalog.Theme) Model {
	m := Model{
		theme:  theme,
		width:  80,
		height: 24,
	}
	m.initForm()
	return m
}

// initForm builds the huh form bound to the model's fields
func (m *Model) initForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("description").
				Title("Describe what you want to build").
				Placeholder(lo.CoalesceOrEmpty(m.theme.Placeholder, "Describe your project...")).
				CharLimit(2000).
				Value(&m.description).
				Validate(validateDescription),

			huh.NewInput().
				Key("links").
				Title("Reference links (optional)").
				Description("Comma separated: docs, designs, specs").
				Placeholder("https://example.com/docs").
				Value(&m.links),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
}

func validateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a description is required")
	}
	return nil
}

// ParseLinks splits a comma separated list and drops blank entries
func ParseLinks(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(l string, _ int) string {
		return strings.TrimSpace(l)
	}))
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// GetLayoutInfo returns layout information for the input screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	return layout.LayoutInfo{
		Title:       m.theme.Title,
		Breadcrumbs: []string{m.theme.Title, "New Project"},
		Status:      m.theme.Tagline,
		HelpItems:   layout.HelpFromBindings(keys.Next, keys.Submit, keys.Quit),
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	dims := layout.GetContentArea(m.GetLayoutInfo(), width, height)
	if dims.Valid {
		m.form = m.form.WithWidth(dims.Width - 4)
	}
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/pipeline"
	"github.com/noldarim/showcase/internal/tui/components/elapsedtimer"
	"github.com/noldarim/showcase/internal/tui/components/stepprogress"
	"github.com/noldarim/showcase/internal/tui/layout"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Collapse key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
	Iterate  key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "collapse"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "scroll logs"),
	),
	ScrollDn: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "scroll logs"),
	),
	Iterate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "start over"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the live pipeline dashboard. It renders snapshots pushed by the
// runner and routes selection changes back through the view-model.
type Model struct {
	theme     catalog.Theme
	vm        *pipeline.ViewModel
	snap      models.Snapshot
	links     []string
	cursor    int
	logHeight int

	spinner spinner.Model
	logs    viewport.Model
	bar     progress.Model
	steps   stepprogress.Model
	timer   elapsedtimer.Model

	width  int
	height int
}

// NewModel creates a dashboard over a started or about to start run.
// now is the clock the run is scheduled on.
func NewModel(theme catalog.Theme, vm *pipeline.ViewModel, links []string, now func() time.Time, logHeight int) Model {
	if logHeight < 1 {
		logHeight = 8
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = s.Style.Foreground(layout.PrimaryColor)

	m := Model{
		theme:     theme,
		vm:        vm,
		links:     links,
		logHeight: logHeight,
		spinner:   s,
		logs:      viewport.New(76, logHeight),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		steps:     stepprogress.New().SetWidth(15),
		timer:     elapsedtimer.New(now),
		width:     80,
		height:    24,
	}
	return m.apply(vm.Snapshot())
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.timer.Init())
}

// Snapshot returns the state currently on screen
func (m Model) Snapshot() models.Snapshot {
	return m.snap
}

// Cursor returns the index of the focused stage card
func (m Model) Cursor() int {
	return m.cursor
}

// GetLayoutInfo returns layout information for the dashboard
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	iterate := keys.Iterate
	iterate.SetEnabled(m.canIterate())
	return layout.LayoutInfo{
		Title:       m.theme.Headline,
		Breadcrumbs: []string{m.theme.Title, "Pipeline"},
		Status:      m.statusLine(),
		HelpItems: layout.HelpFromBindings(
			keys.Up, keys.Down, keys.Toggle, keys.Collapse, keys.ScrollUp, iterate, keys.Quit,
		),
	}
}

// canIterate reports whether the run halted early and can be restarted
func (m Model) canIterate() bool {
	return m.snap.Status == models.RunFailed || m.snap.Status == models.RunCancelled
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(10, width-24)
	m.logs.Width = max(10, width-8)
}

// apply replaces the rendered state with a newer snapshot
func (m Model) apply(s models.Snapshot) Model {
	m.snap = s
	m.steps = m.steps.SetSnapshot(s)
	m.timer = m.timer.SetSpan(s.StartedAt, s.FinishedAt)
	if m.cursor >= len(s.Stages) {
		m.cursor = max(0, len(s.Stages)-1)
	}
	m.refreshLogs()
	return m
}

// refreshLogs loads the expanded stage's log lines into the viewport. The
// view sticks to the bottom unless the user scrolled up.
func (m *Model) refreshLogs() {
	st, ok := m.snap.Expanded()
	if !ok {
		m.logs.SetContent("")
		return
	}
	atBottom := m.logs.AtBottom()
	m.logs.Height = min(m.logHeight, max(1, len(st.Logs)))
	m.logs.SetContent(renderLogLines(st.Logs))
	if atBottom {
		m.logs.GotoBottom()
	}
}

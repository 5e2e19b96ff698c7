// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package elapsedtimer

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TickMsg is sent every second while the timer runs
type TickMsg time.Time

// Model shows the time since a run started. It reads time from a clock
// function so a scaled or virtual scheduler drives it consistently.
type Model struct {
	now      func() time.Time
	started  time.Time
	finished time.Time
}

// New creates a timer reading the given clock; nil means time.Now
func New(now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{now: now}
}

// SetSpan sets the start and, once known, the end of the measured span
func (m Model) SetSpan(started, finished time.Time) Model {
	m.started = started
	m.finished = finished
	return m
}

// Running reports whether the timer is still counting
func (m Model) Running() bool {
	return !m.started.IsZero() && m.finished.IsZero()
}

func (m Model) Init() tea.Cmd {
	if m.Running() {
		return tick()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok && m.Running() {
		return m, tick()
	}
	return m, nil
}

// View renders: "⏱ 2m 34s"
func (m Model) View() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	return dim.Render("⏱") + " " + accent.Render(Format(m.Elapsed()))
}

// Elapsed returns the measured duration so far
func (m Model) Elapsed() time.Duration {
	switch {
	case m.started.IsZero():
		return 0
	case !m.finished.IsZero():
		return m.finished.Sub(m.started)
	default:
		return m.now().Sub(m.started)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Format renders a duration as "1h 2m 3s", "2m 3s" or "3s"
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

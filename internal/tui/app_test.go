// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/protocol"
	"github.com/noldarim/showcase/internal/scheduler"
	"github.com/noldarim/showcase/internal/tui/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appHarness struct {
	t     *testing.T
	clock *scheduler.Virtual
	app   App
}

func newAppHarness(t *testing.T, mutate func(*Options)) *appHarness {
	t.Helper()
	theme, err := catalog.Builtin("agentbuilder")
	require.NoError(t, err)

	clock := scheduler.NewVirtual(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	opts := Options{
		Theme:           theme,
		Scheduler:       clock,
		SettleDelay:     10 * time.Millisecond,
		CompletionDelay: 10 * time.Millisecond,
		LogHeight:       4,
	}
	if mutate != nil {
		mutate(&opts)
	}
	app, err := NewApp(context.Background(), opts)
	require.NoError(t, err)

	h := &appHarness{t: t, clock: clock, app: app}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 60})
	return h
}

// send delivers msg and returns the screen command. Mailbox waits are never
// executed; pump drains the mailbox instead.
func (h *appHarness) send(msg tea.Msg) tea.Cmd {
	model, cmd := h.app.Update(msg)
	h.app = model.(App)
	return cmd
}

func (h *appHarness) pump() {
	for {
		msg, ok := h.app.Mailbox().TryReceive()
		if !ok {
			return
		}
		h.send(msg)
	}
}

func (h *appHarness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.pump()
}

func (h *appHarness) runToResults() {
	for range 2000 {
		if h.app.Screen() != DashboardScreen {
			return
		}
		h.advance(100 * time.Millisecond)
	}
	h.t.Fatal("run did not finish")
}

func TestApp_StartsOnInput(t *testing.T) {
	h := newAppHarness(t, nil)
	assert.Equal(t, InputScreen, h.app.Screen())
	assert.Nil(t, h.app.Runner())
	assert.Contains(t, h.app.View(), "AgentBuilder")
}

func TestApp_RunToResultsAndIterate(t *testing.T) {
	h := newAppHarness(t, nil)

	h.send(messages.SubmitMsg{Description: "todo app", Links: []string{"https://example.com/brief"}})
	h.pump()
	require.Equal(t, DashboardScreen, h.app.Screen())
	first := h.app.Runner()
	require.NotNil(t, first)
	assert.Equal(t, models.RunRunning, first.Snapshot().Status)
	assert.Contains(t, h.app.View(), "Building Your Application")

	h.runToResults()
	assert.Equal(t, ResultsScreen, h.app.Screen())
	assert.Equal(t, models.RunCompleted, first.Snapshot().Status)
	view := h.app.View()
	assert.Contains(t, view, "Application Successfully Built and Deployed")
	assert.Contains(t, view, "https://example.com/brief")

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	h.send(cmd())
	assert.Equal(t, InputScreen, h.app.Screen())

	h.send(messages.SubmitMsg{Description: "second"})
	h.pump()
	assert.Equal(t, DashboardScreen, h.app.Screen())
	assert.NotEqual(t, first.RunID(), h.app.Runner().RunID())
}

func TestApp_NewSubmissionDiscardsStaleRun(t *testing.T) {
	h := newAppHarness(t, nil)

	h.send(messages.SubmitMsg{Description: "first"})
	h.pump()
	first := h.app.Runner()
	h.clock.Advance(time.Second) // events queue up unapplied

	h.send(messages.SubmitMsg{Description: "second"})
	assert.Equal(t, models.RunCancelled, first.Snapshot().Status)
	h.pump()

	second := h.app.Runner()
	require.NotEqual(t, first.RunID(), second.RunID())
	assert.Positive(t, h.app.filter.Dropped(), "queued events of the first run are dropped")
	assert.Contains(t, h.app.View(), "second")
}

func TestApp_QuitCancelsRun(t *testing.T) {
	h := newAppHarness(t, nil)
	h.send(messages.SubmitMsg{Description: "todo app"})
	h.pump()

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	quit := h.send(cmd())
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())

	assert.Equal(t, models.RunCancelled, h.app.Runner().Snapshot().Status)
	h.clock.Advance(time.Hour)
	assert.Zero(t, h.clock.Pending(), "nothing fires after cancel")
}

func TestApp_ExtraListenerSeesEveryEvent(t *testing.T) {
	var mu sync.Mutex
	var types []protocol.PipelineEventType
	h := newAppHarness(t, func(o *Options) {
		o.Listener = func(e protocol.PipelineEvent) {
			mu.Lock()
			defer mu.Unlock()
			types = append(types, e.Type)
		}
	})

	h.send(messages.SubmitMsg{Description: "todo app"})
	h.pump()
	h.runToResults()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, types)
	assert.Equal(t, protocol.RunStarted, types[0])
	assert.Equal(t, protocol.RunCompleted, types[len(types)-1])
}

func TestApp_DemoMode(t *testing.T) {
	h := newAppHarness(t, func(o *Options) { o.Demo = true })
	require.Equal(t, DemoScreen, h.app.Screen())

	h.app.Init()
	h.advance(0)
	assert.Contains(t, h.app.View(), "AgentBuilder - AI Development Platform")

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	quit := h.send(cmd())
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
}

func TestNewApp_Errors(t *testing.T) {
	theme, err := catalog.Builtin("agentbuilder")
	require.NoError(t, err)

	_, err = NewApp(context.Background(), Options{Theme: theme})
	assert.ErrorContains(t, err, "scheduler is required")

	_, err = NewApp(context.Background(), Options{Theme: catalog.Theme{Name: "empty"}, Scheduler: scheduler.NewVirtual(time.Now())})
	assert.Error(t, err)

	noReel := theme
	noReel.Reel = catalog.Reel{}
	_, err = NewApp(context.Background(), Options{Theme: noReel, Scheduler: scheduler.NewVirtual(time.Now()), Demo: true})
	assert.ErrorContains(t, err, "demo reel")
}

func TestApp_DescriptionSkipsInput(t *testing.T) {
	h := newAppHarness(t, func(o *Options) {
		o.Description = "todo app"
		o.Links = []string{"https://example.com"}
	})

	// Init batches the submission with the mailbox wait; deliver it directly.
	h.send(messages.SubmitMsg{Description: h.app.opts.Description, Links: h.app.opts.Links})
	h.pump()
	assert.Equal(t, DashboardScreen, h.app.Screen())
	assert.Equal(t, "todo app", h.app.Runner().Snapshot().Description)
}

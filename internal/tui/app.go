// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/pipeline"
	"github.com/noldarim/showcase/internal/protocol"
	"github.com/noldarim/showcase/internal/scheduler"
	"github.com/noldarim/showcase/internal/tui/messages"
	"github.com/noldarim/showcase/internal/tui/screens/dashboard"
	"github.com/noldarim/showcase/internal/tui/screens/demo"
	"github.com/noldarim/showcase/internal/tui/screens/projectinput"
	"github.com/noldarim/showcase/internal/tui/screens/results"
	"go.opentelemetry.io/otel/trace"
)

// ScreenType represents the current active screen
type ScreenType int

const (
	InputScreen ScreenType = iota
	DashboardScreen
	ResultsScreen
	DemoScreen
)

func (s ScreenType) String() string {
	switch s {
	case InputScreen:
		return "Input"
	case DashboardScreen:
		return "Dashboard"
	case ResultsScreen:
		return "Results"
	case DemoScreen:
		return "Demo"
	default:
		return "Unknown"
	}
}

// Options configures the TUI
type Options struct {
	Theme     catalog.Theme
	Scheduler scheduler.Scheduler

	SettleDelay     time.Duration
	CompletionDelay time.Duration
	Tracer          trace.Tracer

	LogHeight int
	AltScreen bool
	// Demo starts on the looping demo reel instead of the input screen
	Demo bool
	// Description skips the input screen and starts a run right away
	Description string
	Links       []string

	// Listener also receives every event of every run, e.g. a transcript
	Listener protocol.Listener
}

// App is the root model. It owns the screens and the lifecycle of the
// active run; a new description discards the previous run.
type App struct {
	ctx      context.Context
	opts     Options
	registry *catalog.Registry

	currentScreen ScreenType
	input         projectinput.Model
	dashboard     dashboard.Model
	results       results.Model
	demo          demo.Model

	runner *pipeline.Runner
	links  []string
	filter *RunFilter
	box    *messages.Mailbox

	width, height int
}

// NewApp creates the root model. ctx bounds every run the app starts.
func NewApp(ctx context.Context, opts Options) (App, error) {
	if opts.Scheduler == nil {
		return App{}, fmt.Errorf("tui: a scheduler is required")
	}
	registry, err := opts.Theme.Registry()
	if err != nil {
		return App{}, err
	}

	a := App{
		ctx:           ctx,
		opts:          opts,
		registry:      registry,
		currentScreen: InputScreen,
		input:         projectinput.NewModel(opts.Theme),
		filter:        NewRunFilter(),
		box:           messages.NewMailbox(ctx),
		width:         80,
		height:        24,
	}

	if opts.Demo {
		a.demo, err = demo.NewModel(ctx, opts.Theme, opts.Scheduler, a.box)
		if err != nil {
			return App{}, fmt.Errorf("demo reel: %w", err)
		}
		a.currentScreen = DemoScreen
	}
	return a, nil
}

func (a App) Init() tea.Cmd {
	var first tea.Cmd
	switch {
	case a.currentScreen == DemoScreen:
		first = a.demo.Init()
	case a.opts.Description != "":
		submit := messages.SubmitMsg{Description: a.opts.Description, Links: a.opts.Links}
		first = func() tea.Msg { return submit }
	default:
		first = a.input.Init()
	}
	return tea.Batch(first, a.box.Wait())
}

// Screen returns the active screen
func (a App) Screen() ScreenType {
	return a.currentScreen
}

// Runner returns the active run, or nil before the first submission
func (a App) Runner() *pipeline.Runner {
	return a.runner
}

// Mailbox returns the queue runner callbacks post to
func (a App) Mailbox() *messages.Mailbox {
	return a.box
}

// setSize updates the size of every screen
func (a *App) setSize(width, height int) {
	a.width = width
	a.height = height
	a.input.SetSize(width, height)
	a.dashboard.SetSize(width, height)
	a.results.SetSize(width, height)
	a.demo.SetSize(width, height)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	log := logger.GetTUILogger().With().Str("component", "app").Logger()

	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		a.setSize(ws.Width, ws.Height)
	}

	// Messages from the mailbox re-arm the wait before anything else.
	var rearm tea.Cmd
	switch msg.(type) {
	case messages.EventMsg, messages.RunCompletedMsg, messages.RunFailedMsg, demo.FrameMsg:
		rearm = a.box.Wait()
	}

	switch msg := msg.(type) {
	case messages.SubmitMsg:
		cmd, err := a.startRun(msg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to start run")
			return a, nil
		}
		return a, cmd

	case messages.EventMsg:
		if !a.filter.ShouldProcess(msg.Event) {
			log.Debug().Str("key", protocol.GetIdempotencyKey(msg.Event)).Msg("Dropped stale event")
			return a, rearm
		}
		if a.currentScreen != DashboardScreen {
			return a, rearm
		}
		model, cmd := a.dashboard.Update(msg)
		a.dashboard = model.(dashboard.Model)
		return a, tea.Batch(rearm, cmd)

	case messages.RunCompletedMsg:
		if a.runner == nil || msg.Snapshot.RunID != a.runner.RunID() {
			return a, rearm
		}
		a.results = results.NewModel(a.opts.Theme, msg.Snapshot, a.links)
		a.results.SetSize(a.width, a.height)
		a.currentScreen = ResultsScreen
		return a, tea.Batch(rearm, a.results.Init())

	case messages.RunFailedMsg:
		log.Warn().Str("run_id", msg.RunID).Str("stage", msg.StageID).Str("reason", msg.Reason).Msg("Run failed")
		return a, rearm

	case messages.GoToInputMsg:
		a.discardRun()
		a.input = projectinput.NewModel(a.opts.Theme)
		a.input.SetSize(a.width, a.height)
		a.currentScreen = InputScreen
		return a, a.input.Init()

	case messages.QuitMsg:
		a.discardRun()
		if a.currentScreen == DemoScreen {
			a.demo.Stop()
		}
		return a, tea.Quit
	}

	// Delegate to the current screen
	var screenCmd tea.Cmd
	var model tea.Model
	switch a.currentScreen {
	case InputScreen:
		model, screenCmd = a.input.Update(msg)
		a.input = model.(projectinput.Model)
	case DashboardScreen:
		model, screenCmd = a.dashboard.Update(msg)
		a.dashboard = model.(dashboard.Model)
	case ResultsScreen:
		model, screenCmd = a.results.Update(msg)
		a.results = model.(results.Model)
	case DemoScreen:
		model, screenCmd = a.demo.Update(msg)
		a.demo = model.(demo.Model)
	}

	return a, tea.Batch(rearm, screenCmd)
}

// startRun discards the active run and starts a new one for the submitted
// description
func (a *App) startRun(msg messages.SubmitMsg) (tea.Cmd, error) {
	a.discardRun()

	box := a.box
	var runner *pipeline.Runner
	runner = pipeline.NewRunner(a.registry, a.opts.Scheduler, pipeline.Options{
		SettleDelay:     a.opts.SettleDelay,
		CompletionDelay: a.opts.CompletionDelay,
		Theme:           a.opts.Theme.Name,
		Tracer:          a.opts.Tracer,
		Listener: protocol.Fanout(func(e protocol.PipelineEvent) {
			box.Post(messages.EventMsg{Event: e})
		}, a.opts.Listener),
		OnComplete: func(s models.Snapshot) {
			box.Post(messages.RunCompletedMsg{Snapshot: s})
		},
		OnError: func(stageID, reason string) {
			box.Post(messages.RunFailedMsg{RunID: runner.RunID(), StageID: stageID, Reason: reason})
		},
	})

	a.filter.Reset(runner.RunID())
	a.runner = runner
	a.links = msg.Links

	if err := runner.Start(a.ctx, msg.Description); err != nil {
		a.runner = nil
		return nil, err
	}
	// built after Start so the elapsed timer sees a running span
	a.dashboard = dashboard.NewModel(a.opts.Theme, pipeline.NewViewModel(runner), msg.Links, a.opts.Scheduler.Now, a.opts.LogHeight)
	a.dashboard.SetSize(a.width, a.height)
	a.currentScreen = DashboardScreen

	log := logger.GetTUILogger()
	log.Info().
		Str("run_id", runner.RunID()).
		Int("links", len(msg.Links)).
		Msg("Run started from TUI")
	return a.dashboard.Init(), nil
}

// discardRun cancels the active run. Events it already posted are dropped
// by the filter once the next run resets it.
func (a *App) discardRun() {
	if a.runner != nil {
		a.runner.Cancel()
	}
}

func (a App) View() string {
	switch a.currentScreen {
	case InputScreen:
		return a.input.View()
	case DashboardScreen:
		return a.dashboard.View()
	case ResultsScreen:
		return a.results.View()
	case DemoScreen:
		return a.demo.View()
	default:
		return "Unknown screen"
	}
}

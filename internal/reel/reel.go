// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reel plays a theme's demo scenes on a scheduler, looping until
// stopped.
package reel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/scheduler"
	"github.com/rs/zerolog"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetReelLogger()
		log = &l
	})
	return log
}

var (
	// ErrAlreadyStarted is returned by Start on a player that was started before.
	ErrAlreadyStarted = errors.New("reel already started")
	// ErrEmptyReel is returned by New for a reel without scenes.
	ErrEmptyReel = errors.New("reel has no scenes")
)

// Frame is delivered each time a scene comes up.
type Frame struct {
	Index int
	Scene catalog.Scene
	Loop  int // zero-based loop count
	Total int
}

// Player cycles through the scenes of a reel.
type Player struct {
	sched   scheduler.Scheduler
	reel    catalog.Reel
	onFrame func(Frame)

	mu      sync.Mutex
	token   context.Context
	cancel  context.CancelFunc
	timer   scheduler.Timer
	current Frame
	started bool
	stopped bool
}

// New returns a player for reel. onFrame runs on the scheduler, never
// concurrently with itself.
func New(sched scheduler.Scheduler, reel catalog.Reel, onFrame func(Frame)) (*Player, error) {
	if len(reel.Scenes) == 0 {
		return nil, ErrEmptyReel
	}
	if err := reel.Validate(); err != nil {
		return nil, err
	}
	return &Player{sched: sched, reel: reel, onFrame: onFrame}, nil
}

// Start shows the first scene and schedules the rest. Cancelling ctx stops
// the player. Starting a stopped player does nothing.
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.token, p.cancel = context.WithCancel(ctx)
	token := p.token
	p.mu.Unlock()
	context.AfterFunc(token, p.Stop)

	getLog().Debug().Int("scenes", len(p.reel.Scenes)).Dur("loop", p.reel.Loop).Msg("Reel started")
	p.schedule(token, Frame{Index: 0, Scene: p.reel.Scenes[0], Total: len(p.reel.Scenes)}, p.reel.Scenes[0].At)
	return nil
}

// Stop tears the player down. No frame is delivered after it returns,
// except one already running.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.cancel == nil {
		return
	}
	p.cancel()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Current returns the frame on screen.
func (p *Player) Current() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Player) schedule(token context.Context, next Frame, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token.Err() != nil {
		return
	}
	p.timer = p.sched.AfterFunc(delay, func() { p.show(token, next) })
}

func (p *Player) show(token context.Context, f Frame) {
	p.mu.Lock()
	if token.Err() != nil {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.current = f
	p.mu.Unlock()

	if p.onFrame != nil {
		p.onFrame(f)
	}

	next := Frame{Index: f.Index + 1, Loop: f.Loop, Total: f.Total}
	var delay time.Duration
	if next.Index < len(p.reel.Scenes) {
		delay = p.reel.Scenes[next.Index].At - f.Scene.At
	} else {
		next.Index = 0
		next.Loop++
		delay = p.reel.Loop - f.Scene.At
	}
	next.Scene = p.reel.Scenes[next.Index]
	p.schedule(token, next, delay)
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/scheduler"
)

// Player replays one stage script. Each entry is scheduled only after the
// previous one was emitted, so delays accumulate in script order.
//
// A Player is not safe for concurrent use; callers serialize access, usually
// by handing it a scheduler whose callbacks already run under their lock.
type Player struct {
	sched   scheduler.Scheduler
	script  []catalog.ScriptEntry
	onEntry func(catalog.ScriptEntry)
	onDone  func()

	next    int
	timer   scheduler.Timer
	started bool
	stopped bool
}

// NewPlayer creates a player for script. onEntry is called once per entry in
// order and onDone once after the last entry.
func NewPlayer(sched scheduler.Scheduler, script []catalog.ScriptEntry, onEntry func(catalog.ScriptEntry), onDone func()) *Player {
	return &Player{
		sched:   sched,
		script:  script,
		onEntry: onEntry,
		onDone:  onDone,
	}
}

// Start begins playback. An empty script calls onDone before Start returns.
// Calling Start again, or after Stop, does nothing.
func (p *Player) Start() {
	if p.started || p.stopped {
		return
	}
	p.started = true
	p.scheduleNext()
}

// Stop cancels the pending emission. No callbacks are made after Stop.
func (p *Player) Stop() {
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Emitted returns how many entries have been emitted so far
func (p *Player) Emitted() int {
	return p.next
}

// Done reports whether every entry was emitted
func (p *Player) Done() bool {
	return p.started && p.next >= len(p.script)
}

func (p *Player) scheduleNext() {
	if p.next >= len(p.script) {
		p.timer = nil
		if p.onDone != nil {
			p.onDone()
		}
		return
	}
	p.timer = p.sched.AfterFunc(p.script[p.next].Delay, p.fire)
}

func (p *Player) fire() {
	if p.stopped {
		return
	}
	entry := p.script[p.next]
	p.next++
	p.timer = nil

	if p.onEntry != nil {
		p.onEntry(entry)
	}
	// onEntry may have stopped playback (a failing entry)
	if p.stopped {
		return
	}
	p.scheduleNext()
}

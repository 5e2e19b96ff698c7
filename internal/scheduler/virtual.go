// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package scheduler

import (
	"sync"
	"time"
)

// Virtual is a deterministic Scheduler. Time only moves in Advance, which runs
// due callbacks in deadline order on the caller's goroutine.
//
// A zero-delay callback scheduled while Advance is running is held back until
// the next Advance call, the same way a zero timeout yields to the event loop
// in a browser. Callbacks with a positive delay that fall inside the advanced
// window run in the same call.
type Virtual struct {
	mu        sync.Mutex
	now       time.Time
	seq       uint64
	epoch     uint64
	advancing bool
	timers    []*virtualTimer
}

// NewVirtual creates a virtual clock starting at start
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc schedules fn at Now()+d. Negative delays count as zero.
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTimer{
		v:        v,
		when:     v.now.Add(d),
		seq:      v.seq,
		fn:       fn,
		epoch:    v.epoch,
		deferred: d == 0 && v.advancing,
	}
	v.timers = append(v.timers, t)
	return t
}

// Advance moves the clock forward by d, running every eligible callback whose
// deadline falls within the window. The clock ends exactly at Now()+d.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	v.epoch++
	epoch := v.epoch
	v.advancing = true
	target := v.now.Add(d)

	for {
		t := v.nextDue(target, epoch)
		if t == nil {
			break
		}
		v.remove(t)
		if t.when.After(v.now) {
			v.now = t.when
		}
		v.mu.Unlock()
		t.fn()
		v.mu.Lock()
	}

	if target.After(v.now) {
		v.now = target
	}
	v.advancing = false
	v.mu.Unlock()
}

// Pending returns the number of callbacks that have not run or been stopped
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// nextDue returns the earliest eligible timer, ordered by deadline then by
// scheduling order. Must be called with mu held.
func (v *Virtual) nextDue(target time.Time, epoch uint64) *virtualTimer {
	var best *virtualTimer
	for _, t := range v.timers {
		if t.when.After(target) {
			continue
		}
		if t.deferred && t.epoch == epoch {
			continue
		}
		if best == nil || t.when.Before(best.when) || (t.when.Equal(best.when) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// remove drops t from the pending set. Must be called with mu held.
func (v *Virtual) remove(t *virtualTimer) bool {
	for i, p := range v.timers {
		if p == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			return true
		}
	}
	return false
}

type virtualTimer struct {
	v        *Virtual
	when     time.Time
	seq      uint64
	fn       func()
	epoch    uint64
	deferred bool
}

func (t *virtualTimer) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	return t.v.remove(t)
}

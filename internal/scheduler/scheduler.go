// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scheduler provides the timer abstraction the pipeline engine runs on.
//
// A Scheduler delivers callbacks after a delay and never runs two callbacks
// concurrently. Loop is the wall-clock implementation; Virtual is a
// deterministic clock for tests that only moves when told to.
package scheduler

import "time"

// Timer is a pending scheduled call
type Timer interface {
	// Stop prevents the call from running. It reports whether the call was
	// still pending; false means it already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay, one at a time
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// scaled divides every delay by a speed factor
type scaled struct {
	inner Scheduler
	speed float64
}

// Scale returns a Scheduler whose delays run speed times faster than inner.
// A speed of 1 (or anything not positive) returns inner unchanged.
func Scale(inner Scheduler, speed float64) Scheduler {
	if speed <= 0 || speed == 1 {
		return inner
	}
	return &scaled{inner: inner, speed: speed}
}

func (s *scaled) Now() time.Time {
	return s.inner.Now()
}

func (s *scaled) AfterFunc(d time.Duration, fn func()) Timer {
	return s.inner.AfterFunc(time.Duration(float64(d)/s.speed), fn)
}

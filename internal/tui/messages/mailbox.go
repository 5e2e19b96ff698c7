// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package messages

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Mailbox carries messages from scheduler callbacks into a tea program.
// Post never blocks, so it is safe to call from the program's own goroutine
// while the runner delivers an event synchronously.
type Mailbox struct {
	ctx    context.Context
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
}

// NewMailbox returns a mailbox whose Wait commands give up once ctx is done
func NewMailbox(ctx context.Context) *Mailbox {
	return &Mailbox{ctx: ctx, notify: make(chan struct{}, 1)}
}

// Post queues msg in order
func (b *Mailbox) Post(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of queued messages
func (b *Mailbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// TryReceive pops the oldest message without waiting
func (b *Mailbox) TryReceive() (tea.Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	msg := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	return msg, true
}

// Wait returns a command that delivers the next message. Exactly one Wait
// should be outstanding; re-arm it after each delivered message.
func (b *Mailbox) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			if msg, ok := b.TryReceive(); ok {
				return msg
			}
			select {
			case <-b.notify:
			case <-b.ctx.Done():
				return nil
			}
		}
	}
}

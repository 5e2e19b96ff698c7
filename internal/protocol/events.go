// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Here lies the definition of the data the pipeline engine sends to its
// presentation layers. Everything a presentation layer can receive from the
// engine is named: Event. Events only ever flow one way; presentation layers
// talk back through the runner's methods.
package protocol

import "fmt"

// RunScoped is implemented by events that belong to a single run
type RunScoped interface {
	Event
	GetRunID() string
}

// GetIdempotencyKey extracts the idempotency key from any event
func GetIdempotencyKey(event Event) string {
	return event.GetMetadata().IdempotencyKey
}

// IdempotencyKey builds the key of the seq-th event of a run
func IdempotencyKey(runID string, seq uint64) string {
	return fmt.Sprintf("%s/%d", runID, seq)
}

// NewMetadata returns metadata for the seq-th event of a run
func NewMetadata(runID string, seq uint64) Metadata {
	return Metadata{
		RunID:          runID,
		IdempotencyKey: IdempotencyKey(runID, seq),
		Version:        CurrentProtocolVersion,
	}
}

// Listener receives events. It must not block for long; it is called from
// the engine's scheduling goroutine.
type Listener func(PipelineEvent)

// Fanout returns a listener that forwards each event to every non-nil
// listener in order
func Fanout(listeners ...Listener) Listener {
	return func(e PipelineEvent) {
		for _, l := range listeners {
			if l != nil {
				l(e)
			}
		}
	}
}

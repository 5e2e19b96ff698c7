// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package common provides shared types used across multiple packages.
package common

// Metadata contains common fields for every message the engine sends to a
// presentation layer (TUI, headless printer, transcript).
type Metadata struct {
	// RunID serves as the correlation ID of the run the message belongs to
	RunID string `json:"run_id,omitempty"`

	// IdempotencyKey identifies a single message of a run ("<run>/<seq>").
	// Messages without this key are always processed.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// Version indicates the protocol version for backward compatibility.
	// Format: "v{major}.{minor}.{patch}" (e.g., "v1.0.0")
	Version string `json:"version"`
}

// CurrentProtocolVersion defines the current version of the protocol.
// This should be updated when making breaking changes to the protocol.
const CurrentProtocolVersion = "v1.0.0"

// Event represents events that can be sent from the engine to a presentation
// layer. Any type implementing this interface can be sent through a listener.
type Event interface {
	GetMetadata() Metadata
}

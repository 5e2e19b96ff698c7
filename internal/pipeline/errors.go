// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned by Start on a runner that was started before
	ErrAlreadyStarted = errors.New("pipeline: run already started")
	// ErrUnknownStage is returned when selecting a stage id that is not registered
	ErrUnknownStage = errors.New("pipeline: unknown stage")
)

// StageFailedError records the stage that halted a run
type StageFailedError struct {
	StageID string
	Reason  string
}

func (e *StageFailedError) Error() string {
	return fmt.Sprintf("stage %s failed: %s", e.StageID, e.Reason)
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"math"

	"github.com/noldarim/showcase/internal/models"
)

// ViewModel is the presentation-facing view of a Runner. It reads run state
// and writes only the expanded stage selection.
//
// Selection policy: the runner expands each stage as it starts. A manual
// selection (including collapsing) overrides that until the next stage
// starts, at which point following the running stage resumes.
type ViewModel struct {
	r *Runner
}

// NewViewModel creates a view-model over r
func NewViewModel(r *Runner) *ViewModel {
	return &ViewModel{r: r}
}

// Snapshot returns the current run state
func (vm *ViewModel) Snapshot() models.Snapshot {
	return vm.r.Snapshot()
}

// Progress returns the overall completion fraction in [0,1]
func (vm *ViewModel) Progress() float64 {
	return vm.r.Snapshot().Progress()
}

// Percent returns Progress as a rounded percentage
func (vm *ViewModel) Percent() int {
	return Percent(vm.Progress())
}

// Expanded returns the stage currently selected for detail viewing
func (vm *ViewModel) Expanded() (models.StageState, bool) {
	return vm.r.Snapshot().Expanded()
}

// SetExpanded selects the stage with the given id; an empty id collapses the
// selection. Unknown ids return ErrUnknownStage and change nothing.
func (vm *ViewModel) SetExpanded(id string) error {
	return vm.r.setExpanded(id, false)
}

// Toggle collapses id if it is the expanded stage and expands it otherwise
func (vm *ViewModel) Toggle(id string) error {
	return vm.r.setExpanded(id, true)
}

// Collapse clears the selection
func (vm *ViewModel) Collapse() {
	_ = vm.r.setExpanded("", false)
}

// Percent converts a completion fraction to a rounded percentage
func Percent(progress float64) int {
	return int(math.Round(progress * 100))
}

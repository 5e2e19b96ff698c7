// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog holds the static description of a pipeline: the ordered
// stage definitions with their scripted logs, and the themes that bundle them.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/samber/lo"
)

// ScriptEntry is one scripted log line. Delay is measured from the previous
// entry's emission, or from the stage start for the first entry.
type ScriptEntry struct {
	Message string
	Delay   time.Duration
	Level   models.LogLevel
	// Fail marks the entry whose emission fails the stage
	Fail bool
}

// StageDefinition is the immutable description of a stage
type StageDefinition struct {
	ID          string
	Name        string
	Description string
	Agent       string
	Script      []ScriptEntry
}

func (d StageDefinition) clone() StageDefinition {
	d.Script = append([]ScriptEntry(nil), d.Script...)
	return d
}

// TotalDelay is the sum of all script delays, i.e. how long the stage runs
func (d StageDefinition) TotalDelay() time.Duration {
	return lo.SumBy(d.Script, func(e ScriptEntry) time.Duration { return e.Delay })
}

// Registry is an ordered, validated set of stage definitions
type Registry struct {
	stages []StageDefinition
	index  map[string]int
}

// NewRegistry validates defs and builds a registry over a private copy of them
func NewRegistry(defs []StageDefinition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("registry must have at least one stage")
	}

	r := &Registry{
		stages: make([]StageDefinition, len(defs)),
		index:  make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		if err := validateStage(i, def); err != nil {
			return nil, err
		}
		if _, dup := r.index[def.ID]; dup {
			return nil, fmt.Errorf("stage %d: duplicate id '%s'", i+1, def.ID)
		}
		r.index[def.ID] = i
		r.stages[i] = def.clone()
	}
	return r, nil
}

func validateStage(i int, def StageDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("stage %d: id is required", i+1)
	}
	if def.Name == "" {
		return fmt.Errorf("stage %d (%s): name is required", i+1, def.ID)
	}
	for j, e := range def.Script {
		if e.Delay < 0 {
			return fmt.Errorf("stage %d (%s): script entry %d: negative delay %s", i+1, def.ID, j+1, e.Delay)
		}
		if !e.Level.Valid() {
			return fmt.Errorf("stage %d (%s): script entry %d: unknown level %q", i+1, def.ID, j+1, e.Level)
		}
	}
	return nil
}

// Len returns the number of stages
func (r *Registry) Len() int {
	return len(r.stages)
}

// At returns the stage at position i
func (r *Registry) At(i int) StageDefinition {
	return r.stages[i].clone()
}

// Stages returns all stage definitions in order
func (r *Registry) Stages() []StageDefinition {
	return lo.Map(r.stages, func(d StageDefinition, _ int) StageDefinition { return d.clone() })
}

// IDs returns the stage ids in order
func (r *Registry) IDs() []string {
	return lo.Map(r.stages, func(d StageDefinition, _ int) string { return d.ID })
}

// IndexOf returns the position of id, or -1 if it is not registered
func (r *Registry) IndexOf(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

// Lookup returns the stage with the given id
func (r *Registry) Lookup(id string) (StageDefinition, bool) {
	i, ok := r.index[id]
	if !ok {
		return StageDefinition{}, false
	}
	return r.stages[i].clone(), true
}

// Stage returns the stage with the given id and panics if it does not exist
func (r *Registry) Stage(id string) StageDefinition {
	def, ok := r.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown stage %q", id))
	}
	return def
}

// Script returns the script of the stage with the given id and panics if it
// does not exist
func (r *Registry) Script(id string) []ScriptEntry {
	return r.Stage(id).Script
}

// TotalDelay is the scripted running time of all stages, excluding any pauses
// the runner adds between them
func (r *Registry) TotalDelay() time.Duration {
	return lo.SumBy(r.stages, StageDefinition.TotalDelay)
}

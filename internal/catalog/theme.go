// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Link is a labelled URL shown on the results screen
type Link struct {
	Label string
	URL   string
}

// Results is the mock outcome shown after a completed run
type Results struct {
	Title      string
	Summary    string
	Links      []Link
	Highlights []string
	Tradeoffs  []string
	NextSteps  []string
	Stack      []string
}

// Scene is one step of the demo reel. At is the offset from the start of the
// loop at which the scene becomes active.
type Scene struct {
	Name    string
	Caption string
	At      time.Duration
}

// Reel is a looping timeline of scenes
type Reel struct {
	Scenes []Scene
	Loop   time.Duration
}

// Validate checks that scenes are ordered and fit inside the loop
func (r Reel) Validate() error {
	if len(r.Scenes) == 0 {
		return nil
	}
	if r.Scenes[0].At != 0 {
		return errors.New("reel: first scene must start at 0")
	}
	for i := 1; i < len(r.Scenes); i++ {
		if r.Scenes[i].At <= r.Scenes[i-1].At {
			return fmt.Errorf("reel: scene %d (%s) does not start after the previous scene", i+1, r.Scenes[i].Name)
		}
	}
	if last := r.Scenes[len(r.Scenes)-1].At; r.Loop <= last {
		return fmt.Errorf("reel: loop %s must be longer than the last scene offset %s", r.Loop, last)
	}
	return nil
}

// Theme bundles a stage catalog with the copy shown around it.
// Placeholder is the example description offered on the input screen.
type Theme struct {
	Name        string
	Title       string
	Headline    string
	Tagline     string
	Placeholder string
	Stages      []StageDefinition
	Results     Results
	Reel        Reel
}

// Validate checks the theme and its stages
func (t Theme) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if _, err := NewRegistry(t.Stages); err != nil {
		return fmt.Errorf("theme %s: %w", t.Name, err)
	}
	if err := t.Reel.Validate(); err != nil {
		return fmt.Errorf("theme %s: %w", t.Name, err)
	}
	return nil
}

// Registry builds the stage registry of the theme
func (t Theme) Registry() (*Registry, error) {
	r, err := NewRegistry(t.Stages)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", t.Name, err)
	}
	return r, nil
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetCatalogLogger()
		log = &l
	})
	return log
}

// ThemeFile is the YAML form of a theme. Durations are integer milliseconds.
type ThemeFile struct {
	Name        string      `yaml:"name"`
	Title       string      `yaml:"title"`
	Headline    string      `yaml:"headline"`
	Tagline     string      `yaml:"tagline"`
	Placeholder string      `yaml:"placeholder"`
	Stages      []StageFile `yaml:"stages"`
	Results     ResultsFile `yaml:"results"`
	Reel        *ReelFile   `yaml:"reel"`
}

// StageFile defines a single stage in the YAML
type StageFile struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Agent       string      `yaml:"agent"`
	Script      []EntryFile `yaml:"script"`
}

// EntryFile defines one scripted log line in the YAML
type EntryFile struct {
	Message string `yaml:"message"`
	DelayMS int    `yaml:"delay_ms"`
	Level   string `yaml:"level"`
	Fail    bool   `yaml:"fail"`
}

// ResultsFile is the YAML form of Results
type ResultsFile struct {
	Title      string            `yaml:"title"`
	Summary    string            `yaml:"summary"`
	Links      map[string]string `yaml:"links"`
	Highlights []string          `yaml:"highlights"`
	Tradeoffs  []string          `yaml:"tradeoffs"`
	NextSteps  []string          `yaml:"next_steps"`
	Stack      []string          `yaml:"stack"`
}

// ReelFile is the YAML form of Reel
type ReelFile struct {
	LoopMS int         `yaml:"loop_ms"`
	Scenes []SceneFile `yaml:"scenes"`
}

// SceneFile is the YAML form of Scene
type SceneFile struct {
	Name    string `yaml:"name"`
	Caption string `yaml:"caption"`
	AtMS    int    `yaml:"at_ms"`
}

// LoadThemeFile loads and validates a theme YAML file
func LoadThemeFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("failed to read theme file: %w", err)
	}

	theme, err := ParseTheme(data)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}

	getLog().Debug().
		Str("path", path).
		Str("theme", theme.Name).
		Int("stages", len(theme.Stages)).
		Msg("Loaded theme file")
	return theme, nil
}

// ParseTheme decodes and validates a theme from YAML
func ParseTheme(data []byte) (Theme, error) {
	var f ThemeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Theme{}, fmt.Errorf("failed to parse theme YAML: %w", err)
	}

	theme, err := f.ToTheme()
	if err != nil {
		return Theme{}, fmt.Errorf("invalid theme: %w", err)
	}
	if err := theme.Validate(); err != nil {
		return Theme{}, fmt.Errorf("invalid theme: %w", err)
	}
	return theme, nil
}

// ToTheme converts the file form into a Theme. A missing title falls back to
// the theme name.
func (f ThemeFile) ToTheme() (Theme, error) {
	t := Theme{
		Name:        f.Name,
		Title:       lo.CoalesceOrEmpty(f.Title, f.Name),
		Headline:    lo.CoalesceOrEmpty(f.Headline, "Running Your Pipeline"),
		Tagline:     f.Tagline,
		Placeholder: f.Placeholder,
		Stages:      make([]StageDefinition, 0, len(f.Stages)),
	}

	for i, s := range f.Stages {
		def := StageDefinition{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Agent:       s.Agent,
			Script:      make([]ScriptEntry, 0, len(s.Script)),
		}
		for j, e := range s.Script {
			level, err := models.ParseLogLevel(e.Level)
			if err != nil {
				return Theme{}, fmt.Errorf("stage %d (%s): script entry %d: %w", i+1, s.ID, j+1, err)
			}
			if e.DelayMS < 0 {
				return Theme{}, fmt.Errorf("stage %d (%s): script entry %d: delay_ms must not be negative", i+1, s.ID, j+1)
			}
			def.Script = append(def.Script, ScriptEntry{
				Message: e.Message,
				Delay:   ms(e.DelayMS),
				Level:   level,
				Fail:    e.Fail,
			})
		}
		t.Stages = append(t.Stages, def)
	}

	t.Results = Results{
		Title:      f.Results.Title,
		Summary:    f.Results.Summary,
		Highlights: f.Results.Highlights,
		Tradeoffs:  f.Results.Tradeoffs,
		NextSteps:  f.Results.NextSteps,
		Stack:      f.Results.Stack,
	}
	labels := lo.Keys(f.Results.Links)
	slices.Sort(labels)
	for _, label := range labels {
		t.Results.Links = append(t.Results.Links, Link{Label: label, URL: f.Results.Links[label]})
	}

	if f.Reel != nil {
		t.Reel.Loop = ms(f.Reel.LoopMS)
		t.Reel.Scenes = lo.Map(f.Reel.Scenes, func(s SceneFile, _ int) Scene {
			return Scene{Name: s.Name, Caption: s.Caption, At: ms(s.AtMS)}
		})
	}
	return t, nil
}

// Resolve returns the theme loaded from path when it is set, otherwise the
// named built-in
func Resolve(name, path string) (Theme, error) {
	if path != "" {
		return LoadThemeFile(path)
	}
	if name == "" {
		name = DefaultTheme
	}
	return Builtin(name)
}

// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/showcase/internal/logger"
)

// Run starts the interactive TUI and blocks until the user quits or ctx is
// cancelled. The active run is cancelled on the way out.
func Run(ctx context.Context, opts Options) error {
	app, err := NewApp(ctx, opts)
	if err != nil {
		return err
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, programOpts...)

	log := logger.GetTUILogger()
	log.Info().Str("theme", opts.Theme.Name).Bool("demo", opts.Demo).Msg("TUI starting")

	final, err := p.Run()
	if f, ok := final.(App); ok && f.runner != nil {
		f.runner.Cancel()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Interrupted from outside: not an error for the caller.
		return nil
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// PrintError renders err in the TUI's error style. Used once the program has
// released the terminal.
func PrintError(w io.Writer, err error) {
	errorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9")).
		Render

	fmt.Fprintf(w, "\n%s\n\n", errorStyle("Error: "+err.Error()))
}

// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/noldarim/showcase/internal/protocol"
	"github.com/noldarim/showcase/internal/transcript"
	"github.com/noldarim/showcase/internal/tui"
	"github.com/noldarim/showcase/internal/tui/screens/projectinput"
	"github.com/spf13/cobra"
)

type runOptions struct {
	links      string
	transcript string
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [description]",
		Short: "Open the interactive pipeline dashboard",
		Long: "Open the TUI. Without a description it starts on the input screen;\n" +
			"with one the pipeline starts right away.",
		Example: `  showcase run
  showcase run "A todo app with auth"
  showcase run --theme contractguard --speed 4 "Audit my vault contract"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, global, opts, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&opts.links, "links", "", "Comma separated reference links")
	cmd.Flags().StringVar(&opts.transcript, "transcript", "", "Append a JSONL transcript of every run to this file")
	return cmd
}

func newDemoCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Play the theme's demo reel in a loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			s, err := global.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(ctx, s.tuiOptions(true, nil))
		},
	}
}

func executeRun(cmd *cobra.Command, global *globalOptions, opts *runOptions, description string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	s, err := global.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var listener protocol.Listener
	if opts.transcript != "" {
		tw, err := transcript.NewFileWriter(opts.transcript)
		if err != nil {
			return err
		}
		defer tw.Close()
		listener = tw.Listener()
	}

	tuiOpts := s.tuiOptions(false, listener)
	tuiOpts.Description = strings.TrimSpace(description)
	tuiOpts.Links = projectinput.ParseLinks(opts.links)

	if err := tui.Run(ctx, tuiOpts); err != nil {
		tui.PrintError(cmd.ErrOrStderr(), err)
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}

func (s *session) tuiOptions(demo bool, listener protocol.Listener) tui.Options {
	return tui.Options{
		Theme:           s.theme,
		Scheduler:       s.sched,
		SettleDelay:     s.cfg.Pipeline.SettleDelay,
		CompletionDelay: s.cfg.Pipeline.CompletionDelay,
		LogHeight:       s.cfg.TUI.LogHeight,
		AltScreen:       s.cfg.TUI.AltScreen,
		Demo:            demo,
		Listener:        listener,
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

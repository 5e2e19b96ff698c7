// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/noldarim/showcase/internal/logger"
	"github.com/noldarim/showcase/internal/models"
	"github.com/noldarim/showcase/internal/pipeline"
	"github.com/noldarim/showcase/internal/protocol"
	"github.com/noldarim/showcase/internal/transcript"
	"github.com/spf13/cobra"
)

const (
	formatText  = "text"
	formatJSONL = "jsonl"
)

type playOptions struct {
	format    string
	snapshots bool
}

func newPlayCommand(global *globalOptions) *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play [description]",
		Short: "Run the pipeline headless and print its progress",
		Long: "Run the pipeline without a TUI. Progress is printed as text lines or as a\n" +
			"JSONL transcript of lifecycle events. Ctrl+C cancels the run.",
		Example: `  showcase play "A todo app with auth"
  showcase play --format jsonl --speed 10 > run.jsonl`,
		PreRunE: func(*cobra.Command, []string) error {
			if opts.format != formatText && opts.format != formatJSONL {
				return fmt.Errorf("unknown format %q (use %s or %s)", opts.format, formatText, formatJSONL)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return executePlay(cmd, global, opts, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Output format: text or jsonl")
	cmd.Flags().BoolVar(&opts.snapshots, "snapshots", false, "Include the full run snapshot in every JSONL record")
	return cmd
}

func executePlay(cmd *cobra.Command, global *globalOptions, opts *playOptions, description string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	s, err := global.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	registry, err := s.theme.Registry()
	if err != nil {
		return err
	}
	if description = strings.TrimSpace(description); description == "" {
		description = s.theme.Placeholder
	}

	out := cmd.OutOrStdout()
	sink, err := newEventSink(out, opts)
	if err != nil {
		return err
	}

	// The terminal event is the last one delivered, so waiting for it also
	// waits for every line before it to be written.
	finished := make(chan struct{})
	var once sync.Once
	listener := func(e protocol.PipelineEvent) {
		sink(e)
		if e.Type.Terminal() {
			once.Do(func() { close(finished) })
		}
	}

	runner := pipeline.NewRunner(registry, s.sched, pipeline.Options{
		SettleDelay:     s.cfg.Pipeline.SettleDelay,
		CompletionDelay: s.cfg.Pipeline.CompletionDelay,
		Theme:           s.theme.Name,
		Listener:        listener,
	})
	if err := runner.Start(ctx, description); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}
	<-finished

	snap := runner.Snapshot()
	log := logger.GetCLILogger()
	log.Info().
		Str("run_id", snap.RunID).
		Str("status", string(snap.Status)).
		Msg("Headless run finished")

	switch snap.Status {
	case models.RunFailed:
		var stageErr *pipeline.StageFailedError
		if err := runner.Err(); errors.As(err, &stageErr) {
			return fmt.Errorf("pipeline failed: %w", err)
		}
		return errors.New("pipeline failed")
	case models.RunCancelled:
		if opts.format == formatText {
			fmt.Fprintln(cmd.ErrOrStderr(), "▸ interrupted")
		}
	}
	return nil
}

// newEventSink returns the listener that prints events in the chosen format
func newEventSink(out io.Writer, opts *playOptions) (protocol.Listener, error) {
	switch opts.format {
	case formatJSONL:
		var topts []transcript.Option
		if opts.snapshots {
			topts = append(topts, transcript.WithSnapshots())
		}
		return transcript.NewWriter(out, topts...).Listener(), nil
	case formatText:
		return func(e protocol.PipelineEvent) {
			if line := pipeline.FormatEvent(e); line != "" {
				fmt.Fprintln(out, line)
			}
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", opts.format)
	}
}

// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires configuration, logging, telemetry and the scheduler into
// the showcase commands.
package cli

import (
	"github.com/spf13/cobra"
)

const appName = "showcase"

// Set at build time via ldflags.
var (
	version = "0.1.0-alpha"
	commit  = "unknown"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	theme      string
	stagesFile string
	speed      float64
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Simulated multi-stage AI pipeline",
		Long: appName + " plays a scripted multi-agent pipeline: stages start in order, replay\n" +
			"their logs on a timer and hand over to the next stage after a settle delay.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: search ., ./config, $HOME/.showcase)")
	flags.StringVar(&opts.theme, "theme", "", "Built-in theme: agentbuilder or contractguard")
	flags.StringVar(&opts.stagesFile, "stages", "", "YAML theme file with custom stages")
	flags.Float64Var(&opts.speed, "speed", 0, "Playback speed multiplier (2 plays twice as fast)")

	root.AddCommand(
		newRunCommand(opts),
		newPlayCommand(opts),
		newStagesCommand(opts),
		newDemoCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI application
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version %s (%s)\n", appName, version, commit)
		},
	}
}

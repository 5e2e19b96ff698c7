// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/noldarim/showcase/internal/catalog"
	"github.com/noldarim/showcase/internal/pipeline"
	"github.com/spf13/cobra"
)

func newStagesCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stages of the configured theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, theme, err := global.loadTheme(cmd)
			if err != nil {
				return err
			}
			registry, err := theme.Registry()
			if err != nil {
				return err
			}
			printStages(cmd.OutOrStdout(), theme, registry)
			return nil
		},
	}
}

func printStages(w io.Writer, theme catalog.Theme, registry *catalog.Registry) {
	fmt.Fprintf(w, "\n%s · %s\n\n", theme.Title, theme.Headline)
	fmt.Fprintf(w, "%-3s  %-14s  %-28s  %-18s  %7s  %s\n", "#", "ID", "NAME", "AGENT", "ENTRIES", "SCRIPT")
	fmt.Fprintln(w, "───  ──────────────  ────────────────────────────  ──────────────────  ───────  ──────")
	for i, def := range registry.Stages() {
		fmt.Fprintf(w, "%-3d  %-14s  %-28s  %-18s  %7d  %s\n",
			i+1,
			truncateForDisplay(def.ID, 14),
			truncateForDisplay(def.Name, 28),
			truncateForDisplay(def.Agent, 18),
			len(def.Script),
			pipeline.FormatDuration(def.TotalDelay()),
		)
	}
	fmt.Fprintf(w, "\n%d stages, %s of scripted logs\n\n", registry.Len(), pipeline.FormatDuration(registry.TotalDelay()))
}

// truncateForDisplay truncates a string for display, adding ellipsis if needed
func truncateForDisplay(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

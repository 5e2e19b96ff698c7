// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpItem represents a single help entry
type HelpItem struct {
	Key         string
	Description string
}

// HelpFromBindings turns enabled key bindings into footer entries
func HelpFromBindings(bindings ...key.Binding) []HelpItem {
	items := make([]HelpItem, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		items = append(items, HelpItem{Key: h.Key, Description: h.Desc})
	}
	return items
}

// RenderHeader creates a header with title, breadcrumbs, and optional status
func RenderHeader(title string, breadcrumbs []string, status string, width int) string {
	titleLine := TitleStyle.Render(title)
	if len(breadcrumbs) > 1 {
		titleLine += "  " + BreadcrumbStyle.Render(strings.Join(breadcrumbs, BreadcrumbSeparator.String()))
	}

	lines := []string{titleLine}
	if status != "" {
		lines = append(lines, StatsStyle.Render(status))
	}
	lines = append(lines, GetDivider(width))
	return strings.Join(lines, "\n")
}

// RenderFooter creates a footer with help items
func RenderFooter(helpItems []HelpItem, width int) string {
	if len(helpItems) == 0 {
		return ""
	}

	parts := make([]string, 0, len(helpItems))
	for _, item := range helpItems {
		parts = append(parts, fmt.Sprintf("[%s] %s",
			HelpKeyStyle.Render(item.Key),
			HelpTextStyle.Render(item.Description)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		GetDivider(width),
		FooterStyle.Width(width).Render(strings.Join(parts, " • ")),
	)
}

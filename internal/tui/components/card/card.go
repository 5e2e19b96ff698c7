// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package card

import (
	"github.com/charmbracelet/lipgloss"
)

// Style defines the visual appearance of a card
type Style struct {
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	Padding     [2]int // vertical, horizontal
	Width       int    // outer width; 0 sizes to content
	Focused     bool   // draws a thick border
}

// DefaultStyle returns a sensible default card style
func DefaultStyle() Style {
	return Style{
		BorderColor: lipgloss.Color("240"),
		TitleColor:  lipgloss.Color("86"),
		Padding:     [2]int{0, 1},
	}
}

// Render creates a bordered card. The title line carries an optional
// right-aligned aside such as a time range.
func Render(title, aside, body string, style Style) string {
	border := lipgloss.RoundedBorder()
	if style.Focused {
		border = lipgloss.ThickBorder()
	}

	box := lipgloss.NewStyle().
		Border(border).
		BorderForeground(style.BorderColor).
		Padding(style.Padding[0], style.Padding[1])

	inner := 0
	if style.Width > 0 {
		// lipgloss widths include padding but not the border
		box = box.Width(style.Width - 2)
		inner = style.Width - 2 - 2*style.Padding[1]
	}

	head := lipgloss.NewStyle().Foreground(style.TitleColor).Bold(true).Render(title)
	if aside != "" {
		asideText := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(aside)
		gap := inner - lipgloss.Width(head) - lipgloss.Width(asideText)
		if gap < 2 {
			gap = 2
		}
		head = lipgloss.JoinHorizontal(lipgloss.Top, head, lipgloss.NewStyle().Width(gap).Render(""), asideText)
	}

	content := head
	if body != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, head, body)
	}
	return box.Render(content)
}

// RenderSimple is a convenience function for quick card rendering with defaults
func RenderSimple(title, body string) string {
	return Render(title, "", body, DefaultStyle())
}

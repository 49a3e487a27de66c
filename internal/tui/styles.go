// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tui

import "github.com/charmbracelet/lipgloss"

var (
	borderColor = lipgloss.Color("#666666")
	infoColor   = lipgloss.Color("#4682B4")
	mutedColor  = lipgloss.Color("#888888")
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	paneStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tui

import (
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// renderTableSizeChart draws a compact bar chart of per-table record
// counts, giving the browser's opening screen an at-a-glance sense of the
// blob's shape before a user drills into individual types.
func renderTableSizeChart(meta scriptMetadata, width int) string {
	bars := []barchart.BarData{
		{Label: "Types", Values: []barchart.BarValue{{Name: "Types", Value: float64(meta.TypeDefinitionsCount), Style: lipgloss.NewStyle().Foreground(infoColor)}}},
		{Label: "Methods", Values: []barchart.BarValue{{Name: "Methods", Value: float64(meta.MethodsCount), Style: lipgloss.NewStyle().Foreground(infoColor)}}},
		{Label: "Strings", Values: []barchart.BarValue{{Name: "Strings", Value: float64(meta.StringCount), Style: lipgloss.NewStyle().Foreground(infoColor)}}},
	}

	bc := barchart.New(width, 6)
	bc.PushAll(bars)
	bc.Draw()
	return bc.View()
}

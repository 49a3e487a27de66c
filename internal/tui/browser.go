// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package tui implements the read-only index browser launched by
// "metadump view". It loads a previously emitted script.json and never
// touches a metadata blob or a companion library image directly.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// StartBrowser loads the script.json at path and runs the full-screen
// type/method browser until the user quits.
func StartBrowser(path string) error {
	idx, err := loadScriptIndex(path)
	if err != nil {
		return err
	}

	program := tea.NewProgram(newModel(idx, path), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/metaforge-re/metadump/internal/tui"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <script.json>",
		Short: "Browse a previously emitted script.json in a full-screen TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.StartBrowser(args[0])
		},
	}
}

// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildVersion is stamped by -ldflags in release builds; it defaults to a
// development marker otherwise.
var buildVersion = "0.1.0-dev"

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "metadump",
		Short: "A global-metadata.dat reader and deobfuscator",
		Long:  "metadump reads an IL2CPP global-metadata.dat blob, detects obfuscation, and emits a pseudo-source declaration listing and a machine-readable index.",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "has no effect: dump always prints the processing log (stdout on success, stderr on failure)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newViewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("metadump version " + buildVersion)
		},
	}
}

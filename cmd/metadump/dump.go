// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/metaforge-re/metadump"
)

var (
	outDir string
	limit  int
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <metadata-file> [library-file]",
		Short: "Parse a metadata file and emit dump.cs, script.json, and deobfuscation_report.txt",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runDump,
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write dump.cs, script.json, and deobfuscation_report.txt into")
	cmd.Flags().IntVar(&limit, "limit", metadump.DefaultTopLevelLimit, "limit dump.cs to the first N images/types (0 = unlimited)")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	metadataPath := args[0]

	l, err := metadump.New(metadataPath, &metadump.Options{})
	if err != nil {
		return drainAndFail(l, err)
	}
	defer l.Close()

	if len(args) == 2 {
		// A failure to load the companion library is always non-fatal.
		_ = l.LoadLibrary(args[1])
	}

	result, err := l.Process()
	if err != nil {
		return drainAndFail(l, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return drainAndFail(l, err)
	}

	if err := writeFile(filepath.Join(outDir, "dump.cs"), func(f *os.File) error {
		return l.EmitDumpCS(f, limit)
	}); err != nil {
		return drainAndFail(l, err)
	}

	if err := writeFile(filepath.Join(outDir, "script.json"), func(f *os.File) error {
		return l.EmitScriptJSON(f)
	}); err != nil {
		return drainAndFail(l, err)
	}

	if err := writeFile(filepath.Join(outDir, "deobfuscation_report.txt"), func(f *os.File) error {
		return l.EmitReport(f, result)
	}); err != nil {
		return drainAndFail(l, err)
	}

	for _, line := range l.Log() {
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func writeFile(path string, emit func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return emit(f)
}

// drainAndFail prints whatever was logged so far to stderr and returns err
// so the root command exits 1, per the exit-code contract.
func drainAndFail(l *metadump.Loader, err error) error {
	if l != nil {
		for _, line := range l.Log() {
			fmt.Fprintln(os.Stderr, line)
		}
	}
	return err
}

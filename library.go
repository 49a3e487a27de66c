// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import (
	"bytes"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/metaforge-re/metadump/internal/log"
)

// libraryImage is the optional companion native library, read verbatim
// and held only for the informational pattern scan below. Nothing in the
// header/table/string/decrypt/symbol pipeline ever reads from it.
type libraryImage struct {
	data mmap.MMap
	f    *os.File
}

// loadLibraryImage mmaps path read-only. Any failure here is reported to
// the caller as ErrLibraryUnavailable-worthy and never escalated.
func loadLibraryImage(path string) (*libraryImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &libraryImage{data: data, f: f}, nil
}

// close releases the mapped library image.
func (lib *libraryImage) close() error {
	if lib == nil {
		return nil
	}
	if lib.data != nil {
		_ = lib.data.Unmap()
	}
	if lib.f != nil {
		return lib.f.Close()
	}
	return nil
}

// patternCounts holds the informational-only fingerprint counts the scan
// produces. It has no bearing on dump.cs or script.json — see
// SPEC_FULL.md §4.10.
type patternCounts struct {
	DispatcherPrologues int
	JunkPaddingRuns     int
}

// dispatcherPrologue is a short, common x86 jump-table dispatch prologue
// fingerprint (movzx eax, byte ptr [...]; jmp [table + eax*4]-style lead-in
// bytes), used only to produce an informational count.
var dispatcherPrologue = []byte{0x0F, 0xB6, 0x04}

// junkPaddingRun is a minimum run length of single-byte NOP padding (0x90)
// counted as a "junk code" region.
const junkPaddingRun = 16

// scanForPatterns performs a single informational pass over the library
// image, logging counts of dispatcher-prologue and junk-padding
// fingerprints. This is a stub: it never writes to any override map and
// never influences any emitted output, so that the library's absence
// never changes results.
func scanForPatterns(lib *libraryImage, logger *log.Helper) patternCounts {
	var counts patternCounts
	if lib == nil || len(lib.data) == 0 {
		return counts
	}

	data := []byte(lib.data)
	counts.DispatcherPrologues = countOccurrences(data, dispatcherPrologue)
	counts.JunkPaddingRuns = countNOPRuns(data, junkPaddingRun)

	logger.Infof("pattern scan (informational only): %d dispatcher prologue(s), %d junk padding run(s)",
		counts.DispatcherPrologues, counts.JunkPaddingRuns)

	return counts
}

func countOccurrences(data, pattern []byte) int {
	n := 0
	idx := 0
	for {
		i := bytes.Index(data[idx:], pattern)
		if i < 0 {
			break
		}
		n++
		idx += i + len(pattern)
	}
	return n
}

func countNOPRuns(data []byte, minRun int) int {
	n := 0
	run := 0
	for _, b := range data {
		if b == 0x90 {
			run++
			continue
		}
		if run >= minRun {
			n++
		}
		run = 0
	}
	if run >= minRun {
		n++
	}
	return n
}

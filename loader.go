// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package metadump decodes the global metadata blob produced by an
// ahead-of-time compiler that converts a managed-runtime assembly into
// native code, recovers obfuscated identifiers, and emits a pseudo-source
// declaration listing and a machine-readable index.
package metadump

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/metaforge-re/metadump/internal/log"
)

// Options configures a Loader.
type Options struct {
	// Logger receives every verbose-log line the Loader produces. If nil,
	// a Buffered logger is created and can be drained via Loader.Log().
	Logger log.Logger
}

// Loader is a single top-level instance that owns the metadata buffer, the
// header view, the two override maps, the obfuscation profiles, and (when
// loaded) the companion library buffer. All decoded records are read-only
// views into the buffer and must not be retained past the Loader's Close.
type Loader struct {
	data mmap.MMap
	size uint32
	f    *os.File

	header Header

	profiles          []Profile
	triggeredProfiles []Profile
	isObfuscated      bool

	decryptedStrings map[uint32]string
	recoveredSymbols map[uint32]string

	library *libraryImage

	logger  *log.Helper
	verbose *log.Buffered
}

// New opens and memory-maps the metadata file at path.
func New(path string, opts *Options) (*Loader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrFileUnreadable
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, ErrFileUnreadable
	}

	l := newLoader(opts)
	l.data = data
	l.size = uint32(len(data))
	l.f = f
	return l, nil
}

// NewBytes builds a Loader directly from an in-memory buffer, with no
// backing file to close.
func NewBytes(data []byte, opts *Options) (*Loader, error) {
	l := newLoader(opts)
	l.data = mmap.MMap(data)
	l.size = uint32(len(data))
	return l, nil
}

func newLoader(opts *Options) *Loader {
	if opts == nil {
		opts = &Options{}
	}

	var helper *log.Helper
	var buffered *log.Buffered
	if opts.Logger != nil {
		helper = log.NewHelper(opts.Logger)
	} else {
		buffered = log.NewBuffer()
		helper = log.NewHelper(buffered)
	}

	return &Loader{
		profiles:         defaultProfiles(),
		decryptedStrings: make(map[uint32]string),
		recoveredSymbols: make(map[uint32]string),
		logger:           helper,
		verbose:          buffered,
	}
}

// Close releases the mapped metadata file and, if loaded, the companion
// library image.
func (l *Loader) Close() error {
	_ = l.library.close()
	if l.data != nil {
		_ = l.data.Unmap()
	}
	if l.f != nil {
		return l.f.Close()
	}
	return nil
}

// LoadLibrary memory-maps an optional companion native library image and
// runs the informational-only pattern scan over it. A failure here is
// always non-fatal: it is logged at Warn and analysis continues without
// the library.
func (l *Loader) LoadLibrary(path string) error {
	lib, err := loadLibraryImage(path)
	if err != nil {
		l.logger.Warnf("companion library unavailable: %v", err)
		return ErrLibraryUnavailable
	}
	l.library = lib
	l.logger.Infof("loaded companion library image: %d bytes", len(lib.data))
	scanForPatterns(lib, l.logger)
	return nil
}

// Load parses the header from buf and publishes it on the Loader. It is
// the only step that can fail fatally; every later phase degrades to
// per-record skips instead of aborting.
func (l *Loader) Load() error {
	h, err := parseHeader(l.data)
	if err != nil {
		l.logger.Errorf("failed to parse metadata header: %v", err)
		return err
	}
	l.header = h
	l.logger.Infof("loaded metadata header: sanity=0x%08X version=%d", h.Sanity, h.Version)
	return nil
}

// Header returns the validated header view.
func (l *Loader) Header() Header { return l.header }

// IsObfuscated reports whether DetectObfuscation found evidence of
// obfuscation. It is only meaningful after DetectObfuscation has run.
func (l *Loader) IsObfuscated() bool { return l.isObfuscated }

// Process runs the full pipeline: load, detect, deobfuscate. It returns
// the fatal load error, if any; deobfuscation failures are reported via
// the returned DeobfuscationResult from ApplyDeobfuscation and never make
// Process itself fail.
func (l *Loader) Process() (DeobfuscationResult, error) {
	if err := l.Load(); err != nil {
		return DeobfuscationResult{}, err
	}

	l.DetectObfuscation()

	var result DeobfuscationResult
	if l.isObfuscated {
		result = l.ApplyDeobfuscation()
	} else {
		result = DeobfuscationResult{Success: true}
	}

	l.logger.Infof("processing complete: decrypted=%d recovered=%d",
		len(l.decryptedStrings), len(l.recoveredSymbols))

	return result, nil
}

// GetDecryptedString returns the decrypted override for a string index, if
// one was recovered.
func (l *Loader) GetDecryptedString(index uint32) (string, bool) {
	s, ok := l.decryptedStrings[index]
	return s, ok
}

// GetRecoveredSymbol returns the recovered symbol override for a token, if
// one was synthesized.
func (l *Loader) GetRecoveredSymbol(token uint32) (string, bool) {
	s, ok := l.recoveredSymbols[token]
	return s, ok
}

// Log returns every verbose-log line produced so far, in order. Only
// meaningful when the Loader was constructed without a custom Logger.
func (l *Loader) Log() []string {
	if l.verbose == nil {
		return nil
	}
	return l.verbose.Lines()
}

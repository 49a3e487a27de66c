// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import "errors"

// Fatal load errors. Any of these abort loading; the CLI exits 1.
var (
	// ErrFileUnreadable is returned when the metadata file could not be
	// opened, mapped, or read.
	ErrFileUnreadable = errors.New("metadata file unreadable")

	// ErrMalformedHeader is returned when the buffer is shorter than the
	// fixed-size header.
	ErrMalformedHeader = errors.New("malformed metadata header")

	// ErrBadMagic is returned when the sanity field does not match one of
	// the three accepted historical values.
	ErrBadMagic = errors.New("Invalid metadata header sanity check")

	// ErrUnsupportedVersion is returned when version is outside [16, 32].
	ErrUnsupportedVersion = errors.New("unsupported metadata version")

	// ErrImplausibleCounts is returned when a guard count is exceeded,
	// indicating a malformed or hostile input rather than a real blob.
	ErrImplausibleCounts = errors.New("implausible table counts in metadata header")
)

// ErrOutsideBoundary is returned by the byte-reading primitives when a read
// would cross the end of the buffer. It is non-fatal: every call site
// treats it as "this one field/record is unavailable", never as a reason
// to abort the whole run.
var ErrOutsideBoundary = errors.New("reading data outside buffer boundary")

// ErrLibraryUnavailable is returned internally when the optional companion
// library image could not be loaded. It is always non-fatal: the caller
// logs it at Warn and continues with metadata-only analysis.
var ErrLibraryUnavailable = errors.New("companion library image unavailable")

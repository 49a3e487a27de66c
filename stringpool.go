// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

// maxPlausibleStringLen bounds how far the resolver will scan looking for
// a terminating NUL before giving up on a candidate.
const maxPlausibleStringLen = 1000

// ResolveString maps a string index to its raw bytes, trying the three
// historical layout conventions in order and returning the first one that
// yields a plausible candidate. It returns an empty slice, never an error,
// on total failure — a bad string index must never abort a dump. Results
// are not memoized: this is a pure function of the buffer and the index.
func (l *Loader) ResolveString(index uint32) []byte {
	if index == absentIndex {
		return nil
	}
	if index >= l.header.String.Count {
		return nil
	}

	offsetTableOff := l.header.String.Offset + index*4
	tableOffset, err := l.ReadUint32(offsetTableOff)
	if err != nil {
		return nil
	}

	dataStart := l.header.String.Offset + l.header.String.Count*4

	// 1. Relative: data begins right after the offset table.
	if s, ok := l.plausibleStringAt(dataStart + tableOffset); ok {
		return s
	}

	// 2. Absolute: offset is relative to the start of the whole buffer.
	if s, ok := l.plausibleStringAt(tableOffset); ok {
		return s
	}

	// 3. Scan: walk null-terminated runs from the start of the data
	// region, advancing `index` times, and take the next run.
	if s, ok := l.scanStringAt(dataStart, index); ok {
		return s
	}

	return nil
}

// plausibleStringAt reads a NUL-terminated run starting at off and reports
// whether it is a plausible string (terminates within maxPlausibleStringLen
// bytes and every byte before the NUL is printable-or-whitespace).
func (l *Loader) plausibleStringAt(off uint32) ([]byte, bool) {
	if off >= l.size {
		return nil, false
	}
	end := off
	limit := off + maxPlausibleStringLen
	if limit > l.size {
		limit = l.size
	}
	for end < limit {
		b := l.data[end]
		if b == 0 {
			return l.data[off:end], true
		}
		if !isPrintableOrWhitespace(b) {
			return nil, false
		}
		end++
	}
	return nil, false
}

// scanStringAt advances past `skip` NUL terminators starting at off, then
// reads the next run and checks its plausibility.
func (l *Loader) scanStringAt(off, skip uint32) ([]byte, bool) {
	pos := off
	for i := uint32(0); i < skip; i++ {
		for pos < l.size && l.data[pos] != 0 {
			pos++
		}
		if pos >= l.size {
			return nil, false
		}
		pos++ // past the NUL
	}
	return l.plausibleStringAt(pos)
}

// rawPoolString returns the bytes of the index-th pool string under the
// Relative convention, up to its NUL terminator or maxPlausibleStringLen
// bytes, with no printability check. The string-encryption detector and
// the Decryption Trial Engine read through it, because ResolveString
// rejects exactly the non-printable bytes they look for.
func (l *Loader) rawPoolString(index uint32) []byte {
	rel, err := l.ReadUint32(l.header.String.Offset + index*4)
	if err != nil {
		return nil
	}
	start := l.header.String.Offset + l.header.String.Count*4 + rel
	if start >= l.size {
		return nil
	}
	end := start
	for end < l.size && l.data[end] != 0 && end-start < maxPlausibleStringLen {
		end++
	}
	return l.data[start:end]
}

// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import (
	"bytes"
	"encoding/binary"
)

// ReadUint64 reads a little-endian uint64 at offset.
func (l *Loader) ReadUint64(offset uint32) (uint64, error) {
	if offset > l.size-8 || offset+8 < offset {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint64(l.data[offset:]), nil
}

// ReadUint32 reads a little-endian uint32 at offset.
func (l *Loader) ReadUint32(offset uint32) (uint32, error) {
	if offset > l.size-4 || offset+4 < offset {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(l.data[offset:]), nil
}

// ReadUint16 reads a little-endian uint16 at offset.
func (l *Loader) ReadUint16(offset uint32) (uint16, error) {
	if offset > l.size-2 || offset+2 < offset {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint16(l.data[offset:]), nil
}

// ReadUint8 reads a single byte at offset.
func (l *Loader) ReadUint8(offset uint32) (uint8, error) {
	if offset+1 > l.size || offset+1 < offset {
		return 0, ErrOutsideBoundary
	}
	return l.data[offset], nil
}

// ReadBytesAtOffset returns a read-only view of size bytes starting at offset.
func (l *Loader) ReadBytesAtOffset(offset, size uint32) ([]byte, error) {
	end := offset + size
	if (end > offset) != (size > 0) {
		return nil, ErrOutsideBoundary
	}
	if offset > l.size || end > l.size {
		return nil, ErrOutsideBoundary
	}
	return l.data[offset:end], nil
}

// structUnpack decodes a fixed-size little-endian record into dst, a
// pointer to a struct of fixed-width fields. It never allocates a copy of
// the source buffer; binary.Read streams directly from the backing array.
func (l *Loader) structUnpack(dst interface{}, offset, size uint32) error {
	end := offset + size
	if (end > offset) != (size > 0) {
		return ErrOutsideBoundary
	}
	if offset > l.size || end > l.size {
		return ErrOutsideBoundary
	}
	r := bytes.NewReader(l.data[offset:end])
	return binary.Read(r, binary.LittleEndian, dst)
}

// IsBitSet reports whether bit pos of n is set.
func IsBitSet(n uint64, pos int) bool {
	return n&(1<<uint(pos)) != 0
}

// isPrintableOrNUL reports whether b is a printable ASCII byte, common
// whitespace, or the NUL terminator.
func isPrintableOrNUL(b byte) bool {
	if b == 0 {
		return true
	}
	return isPrintableOrWhitespace(b)
}

// isPrintableOrWhitespace reports whether b is printable ASCII or common
// whitespace (space, tab, CR, LF).
func isPrintableOrWhitespace(b byte) bool {
	if b >= 0x20 && b < 0x7F {
		return true
	}
	switch b {
	case '\t', '\n', '\r':
		return true
	}
	return false
}

// printableRatio returns the fraction of bytes in s that are printable-or-NUL.
func printableRatio(s []byte) float64 {
	if len(s) == 0 {
		return 1
	}
	n := 0
	for _, b := range s {
		if isPrintableOrNUL(b) {
			n++
		}
	}
	return float64(n) / float64(len(s))
}

// letterRatio returns the fraction of bytes in s that are ASCII letters.
func letterRatio(s []byte) float64 {
	if len(s) == 0 {
		return 0
	}
	n := 0
	for _, b := range s {
		if isASCIILetter(b) {
			n++
		}
	}
	return float64(n) / float64(len(s))
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isASCIIVowel reports whether b is an ASCII vowel. 'y' counts as a vowel,
// so a name such as "SystemCore" has no run of four consonants.
func isASCIIVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u', 'y', 'A', 'E', 'I', 'O', 'U', 'Y':
		return true
	}
	return false
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIIUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

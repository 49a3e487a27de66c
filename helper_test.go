// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestReadUint32RoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[4:], 0xDEADBEEF)
	l := newTestLoader(buf, Header{})

	got, err := l.ReadUint32(4)
	if err != nil {
		t.Fatalf("ReadUint32: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("ReadUint32(4) = 0x%X, want 0xDEADBEEF", got)
	}
}

func TestReadUint32RejectsOutOfBounds(t *testing.T) {
	l := newTestLoader(make([]byte, 8), Header{})
	if _, err := l.ReadUint32(6); !errors.Is(err, ErrOutsideBoundary) {
		t.Fatalf("ReadUint32(6) on an 8-byte buffer: got %v, want ErrOutsideBoundary", err)
	}
	if _, err := l.ReadUint32(4); err != nil {
		t.Fatalf("ReadUint32(4) should fit exactly: %v", err)
	}
}

func TestReadUint16AndUint8(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	l := newTestLoader(buf, Header{})

	if got, err := l.ReadUint16(2); err != nil || got != 0x0403 {
		t.Errorf("ReadUint16(2) = 0x%X, err=%v, want 0x0403", got, err)
	}
	if got, err := l.ReadUint8(3); err != nil || got != 0x04 {
		t.Errorf("ReadUint8(3) = 0x%X, err=%v, want 0x04", got, err)
	}
	if _, err := l.ReadUint8(4); !errors.Is(err, ErrOutsideBoundary) {
		t.Errorf("ReadUint8(4) on a 4-byte buffer: got %v, want ErrOutsideBoundary", err)
	}
}

func TestReadBytesAtOffsetRejectsOverflowAndOutOfBounds(t *testing.T) {
	l := newTestLoader(make([]byte, 10), Header{})

	if _, err := l.ReadBytesAtOffset(5, 5); err != nil {
		t.Errorf("ReadBytesAtOffset(5,5) should fit exactly: %v", err)
	}
	if _, err := l.ReadBytesAtOffset(6, 5); !errors.Is(err, ErrOutsideBoundary) {
		t.Errorf("ReadBytesAtOffset(6,5) exceeds buffer: got %v, want ErrOutsideBoundary", err)
	}
	if _, err := l.ReadBytesAtOffset(0, 0xFFFFFFFF); !errors.Is(err, ErrOutsideBoundary) {
		t.Errorf("ReadBytesAtOffset with a wraparound size: got %v, want ErrOutsideBoundary", err)
	}
}

func TestIsBitSet(t *testing.T) {
	var n uint64 = 0b1010
	if IsBitSet(n, 0) {
		t.Error("bit 0 should be clear")
	}
	if !IsBitSet(n, 1) {
		t.Error("bit 1 should be set")
	}
	if !IsBitSet(n, 3) {
		t.Error("bit 3 should be set")
	}
}

func TestPrintableRatioAndLetterRatio(t *testing.T) {
	if r := printableRatio(nil); r != 1 {
		t.Errorf("printableRatio(nil) = %v, want 1", r)
	}
	if r := printableRatio([]byte{0x01, 'a'}); r != 0.5 {
		t.Errorf("printableRatio = %v, want 0.5", r)
	}
	if r := letterRatio([]byte("ab12")); r != 0.5 {
		t.Errorf("letterRatio = %v, want 0.5", r)
	}
}

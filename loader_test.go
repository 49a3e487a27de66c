// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import (
	"errors"
	"strings"
	"testing"
)

// buildMinimalBlob assembles a well-formed, unobfuscated metadata blob with
// one image and one type named "Foo" in the root namespace, for exercising
// the full Process pipeline end to end.
func buildMinimalBlob() []byte {
	names := []string{"", "Foo", "MainModule"}
	pool := buildStringPool(names)

	const stringOffset = headerSize
	imagesOff := uint32(stringOffset) + uint32(len(pool))
	typesOff := imagesOff + imageRecordSize
	total := typesOff + typeRecordSize

	b := newHeaderBuilder().
		set("string", uint32(stringOffset), uint32(len(names))).
		set("images", imagesOff, 1).
		set("typeDefinitions", typesOff, 1)
	buf := b.build(total)

	copy(buf[stringOffset:], pool)
	putRecord(buf, imagesOff, &ImageRecord{NameIndex: 2, TypeStart: 0, TypeCount: 1})
	putRecord(buf, typesOff, &TypeRecord{NameIndex: 1, NamespaceIndex: 0, ParentIndex: absentIndex})

	return buf
}

func TestProcessEndToEndUnobfuscated(t *testing.T) {
	l, err := NewBytes(buildMinimalBlob(), nil)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	defer l.Close()

	result, err := l.Process()
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !result.Success {
		t.Fatalf("Process result not successful: %s", result.ErrorMessage)
	}
	if l.IsObfuscated() {
		t.Error("a plain unobfuscated blob should not be flagged as obfuscated")
	}

	var cs strings.Builder
	if err := l.EmitDumpCS(&cs, 0); err != nil {
		t.Fatalf("EmitDumpCS: %v", err)
	}
	if !strings.Contains(cs.String(), "// Type: .Foo") {
		t.Errorf("dump.cs missing expected type line, got:\n%s", cs.String())
	}

	idx := l.BuildScriptIndex()
	if len(idx.Types) != 1 || idx.Types[0].Name != "Foo" {
		t.Errorf("script index types = %+v, want a single type named Foo", idx.Types)
	}
}

func TestProcessIndependentOfCompanionLibraryAbsence(t *testing.T) {
	blob := buildMinimalBlob()

	withoutLib, err := NewBytes(append([]byte(nil), blob...), nil)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	defer withoutLib.Close()
	resultWithout, err := withoutLib.Process()
	if err != nil {
		t.Fatalf("Process (no library): %v", err)
	}

	withLib, err := NewBytes(append([]byte(nil), blob...), nil)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	defer withLib.Close()
	if err := withLib.LoadLibrary("/nonexistent/path/does-not-exist.so"); !errors.Is(err, ErrLibraryUnavailable) {
		t.Fatalf("LoadLibrary on a missing file: got %v, want ErrLibraryUnavailable", err)
	}
	resultWith, err := withLib.Process()
	if err != nil {
		t.Fatalf("Process (library load attempted): %v", err)
	}

	if resultWithout.Success != resultWith.Success {
		t.Errorf("Process success diverged based on companion library availability")
	}
	idxWithout := withoutLib.BuildScriptIndex()
	idxWith := withLib.BuildScriptIndex()
	if len(idxWithout.Types) != len(idxWith.Types) {
		t.Errorf("type count diverged based on companion library availability: %d vs %d",
			len(idxWithout.Types), len(idxWith.Types))
	}
}

// buildObfuscatedBlob assembles a blob that trips both obfuscation
// profiles: an encrypted pool string (string-encryption) and a
// length-1 type name (short-names), so a full Process run exercises the
// decrypt and recover-symbols phases as well as load/detect/emit.
func buildObfuscatedBlob() []byte {
	names := []string{"", xorBytes("Hello System.World", 0xFF), "a"}
	pool := buildStringPool(names)

	const stringOffset = headerSize
	typesOff := uint32(stringOffset) + uint32(len(pool))
	total := typesOff + typeRecordSize

	b := newHeaderBuilder().
		set("string", uint32(stringOffset), uint32(len(names))).
		set("typeDefinitions", typesOff, 1)
	buf := b.build(total)

	copy(buf[stringOffset:], pool)
	putRecord(buf, typesOff, &TypeRecord{NameIndex: 2, NamespaceIndex: 0, ParentIndex: absentIndex})

	return buf
}

func TestProcessLogsPhaseMarkersInOrder(t *testing.T) {
	l, err := NewBytes(buildObfuscatedBlob(), nil)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	defer l.Close()

	if _, err := l.Process(); err != nil {
		t.Fatalf("Process: %v", err)
	}
	var out strings.Builder
	if err := l.EmitDumpCS(&out, 0); err != nil {
		t.Fatalf("EmitDumpCS: %v", err)
	}
	if err := l.EmitScriptJSON(&out); err != nil {
		t.Fatalf("EmitScriptJSON: %v", err)
	}
	if err := l.EmitReport(&out, DeobfuscationResult{Success: true}); err != nil {
		t.Fatalf("EmitReport: %v", err)
	}

	markers := []string{"loaded metadata header", "obfuscation detected", "decrypt:", "recover-symbols:", "emit:"}
	lines := l.Log()
	pos := 0
	for _, marker := range markers {
		found := -1
		for i := pos; i < len(lines); i++ {
			if strings.Contains(lines[i], marker) {
				found = i
				break
			}
		}
		if found == -1 {
			t.Fatalf("log marker %q not found after position %d; log:\n%s", marker, pos, strings.Join(lines, "\n"))
		}
		pos = found + 1
	}
}

func TestLoadRejectsMalformedHeader(t *testing.T) {
	l, err := NewBytes(make([]byte, headerSize-1), nil)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	defer l.Close()

	if _, err := l.Process(); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("Process on a too-short buffer: got %v, want ErrMalformedHeader", err)
	}
}

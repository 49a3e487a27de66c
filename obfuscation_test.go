// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import "testing"

// xorBytes XORs each byte of s with key, used here to build ciphertext
// test fixtures that never contain a NUL byte (so they survive the
// NUL-terminated string pool encoding).
func xorBytes(s string, key byte) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[i] ^ key
	}
	return string(out)
}

func TestDetectStringEncryptionTriggersOnHighNonPrintableRatio(t *testing.T) {
	cipher := xorBytes("Hello System.World", 0xFF)
	pool := buildStringPool([]string{cipher, cipher, cipher})

	h := Header{String: TableRange{Offset: 0, Count: 3}}
	l := newTestLoader(pool, h)

	if !detectStringEncryption(l) {
		t.Error("detectStringEncryption should trigger on mostly non-printable strings")
	}
}

func TestDetectStringEncryptionDoesNotTriggerOnPlainStrings(t *testing.T) {
	pool := buildStringPool([]string{"System.Int32", "System.String", "MonoBehaviour"})
	h := Header{String: TableRange{Offset: 0, Count: 3}}
	l := newTestLoader(pool, h)

	if detectStringEncryption(l) {
		t.Error("detectStringEncryption should not trigger on plain ASCII strings")
	}
}

func TestDetectShortNamesTriggersAboveThreshold(t *testing.T) {
	// 8 of 10 type names are length <= 2: ratio 0.8 > 0.70.
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "LongNameOne", "LongNameTwo"}
	pool := buildStringPool(names)

	buf := make([]byte, uint32(len(pool))+uint32(len(names))*typeRecordSize)
	copy(buf, pool)
	typesOff := uint32(len(pool))
	for i := range names {
		rec := TypeRecord{NameIndex: uint32(i), ParentIndex: absentIndex}
		putRecord(buf, typesOff+uint32(i)*typeRecordSize, &rec)
	}

	h := Header{
		String:          TableRange{Offset: 0, Count: uint32(len(names))},
		TypeDefinitions: TableRange{Offset: typesOff, Count: uint32(len(names))},
	}
	l := newTestLoader(buf, h)

	if !detectShortNames(l) {
		t.Error("detectShortNames should trigger when >0.70 of names are length <= 2")
	}
}

func TestDetectShortNamesDoesNotTriggerBelowThreshold(t *testing.T) {
	names := []string{"a", "b", "LongNameOne", "LongNameTwo", "LongNameThree"}
	pool := buildStringPool(names)

	buf := make([]byte, uint32(len(pool))+uint32(len(names))*typeRecordSize)
	copy(buf, pool)
	typesOff := uint32(len(pool))
	for i := range names {
		rec := TypeRecord{NameIndex: uint32(i), ParentIndex: absentIndex}
		putRecord(buf, typesOff+uint32(i)*typeRecordSize, &rec)
	}

	h := Header{
		String:          TableRange{Offset: 0, Count: uint32(len(names))},
		TypeDefinitions: TableRange{Offset: typesOff, Count: uint32(len(names))},
	}
	l := newTestLoader(buf, h)

	if detectShortNames(l) {
		t.Error("detectShortNames should not trigger when short-name ratio is below 0.70")
	}
}

func TestRecoverAllSymbolsClassWithNoParent(t *testing.T) {
	// Scenario 3: a type whose raw name "a" is obfuscated and has no
	// parent must recover as Class_<index>.
	names := []string{"a", ""}
	pool := buildStringPool(names)

	buf := make([]byte, uint32(len(pool))+typeRecordSize)
	copy(buf, pool)
	typesOff := uint32(len(pool))
	rec := TypeRecord{NameIndex: 0, NamespaceIndex: 1, ParentIndex: absentIndex}
	putRecord(buf, typesOff, &rec)

	h := Header{
		String:          TableRange{Offset: 0, Count: uint32(len(names))},
		TypeDefinitions: TableRange{Offset: typesOff, Count: 1},
	}
	l := newTestLoader(buf, h)

	if err := l.recoverAllSymbols(); err != nil {
		t.Fatalf("recoverAllSymbols: %v", err)
	}
	got, ok := l.GetRecoveredSymbol(tokenForType(0))
	if !ok {
		t.Fatalf("no symbol recovered for type 0")
	}
	if got != "Class_0" {
		t.Errorf("recovered symbol = %q, want %q", got, "Class_0")
	}
}

func TestRecoverAllSymbolsMonoBehaviourChild(t *testing.T) {
	// Scenario 4: a type whose raw name "b" is obfuscated and whose parent
	// resolves to "MonoBehaviour" must recover as GameBehavior_<index>.
	names := []string{"b", "MonoBehaviour", ""}
	pool := buildStringPool(names)

	buf := make([]byte, uint32(len(pool))+2*typeRecordSize)
	copy(buf, pool)
	typesOff := uint32(len(pool))
	child := TypeRecord{NameIndex: 0, NamespaceIndex: 2, ParentIndex: 1}
	parent := TypeRecord{NameIndex: 1, NamespaceIndex: 2, ParentIndex: absentIndex}
	putRecord(buf, typesOff, &child)
	putRecord(buf, typesOff+typeRecordSize, &parent)

	h := Header{
		String:          TableRange{Offset: 0, Count: uint32(len(names))},
		TypeDefinitions: TableRange{Offset: typesOff, Count: 2},
	}
	l := newTestLoader(buf, h)

	if err := l.recoverAllSymbols(); err != nil {
		t.Fatalf("recoverAllSymbols: %v", err)
	}
	got, ok := l.GetRecoveredSymbol(tokenForType(0))
	if !ok {
		t.Fatalf("no symbol recovered for type 0")
	}
	if got != "GameBehavior_0" {
		t.Errorf("recovered symbol = %q, want %q", got, "GameBehavior_0")
	}
}

func TestApplyDeobfuscationIdempotent(t *testing.T) {
	cipher := xorBytes("Hello System.World", 0xFF)
	pool := buildStringPool([]string{cipher})

	h := Header{String: TableRange{Offset: 0, Count: 1}}
	l := newTestLoader(pool, h)

	l.DetectObfuscation()
	first := l.ApplyDeobfuscation()
	if !first.Success {
		t.Fatalf("first ApplyDeobfuscation failed: %s", first.ErrorMessage)
	}
	firstStrings := map[uint32]string{}
	for k, v := range l.decryptedStrings {
		firstStrings[k] = v
	}

	l.DetectObfuscation()
	second := l.ApplyDeobfuscation()
	if !second.Success {
		t.Fatalf("second ApplyDeobfuscation failed: %s", second.ErrorMessage)
	}
	if len(l.decryptedStrings) != len(firstStrings) {
		t.Fatalf("decryptedStrings count changed across repeated runs: %d vs %d",
			len(l.decryptedStrings), len(firstStrings))
	}
	for k, v := range firstStrings {
		if l.decryptedStrings[k] != v {
			t.Errorf("decryptedStrings[%d] = %q after rerun, want %q", k, l.decryptedStrings[k], v)
		}
	}
}

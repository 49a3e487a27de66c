// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import (
	"bytes"
	"encoding/binary"
)

// headerFieldOrder mirrors parseHeader's on-disk field order exactly, for
// building well-formed test buffers without duplicating field-by-field
// offset arithmetic in every test.
var headerFieldOrder = []string{
	"stringLiteral", "stringLiteralData", "string", "events", "properties",
	"methods", "parameterDefaultValues", "fieldDefaultValues",
	"fieldAndParameterDefaultValueData", "fieldMarshaledSizes", "parameters",
	"fields", "genericParameters", "genericParameterConstraints",
	"genericContainers", "nestedTypes", "interfaces", "vtableMethods",
	"interfaceOffsets", "typeDefinitions", "images", "assemblies",
	"metadataUsageLists", "metadataUsagePairs", "fieldRefs",
	"referencedAssemblies", "attributesInfo", "attributeTypes",
	"unresolvedVirtualCallParameterTypes",
	"unresolvedVirtualCallParameterRanges", "windowsRuntimeTypeNames",
	"exportedTypeDefinitions",
}

// headerBuilder assembles a well-formed metadata header plus trailing
// payload for tests, so each test only has to set the few table ranges it
// cares about.
type headerBuilder struct {
	sanity  uint32
	version int32
	ranges  map[string]TableRange
}

func newHeaderBuilder() *headerBuilder {
	return &headerBuilder{
		sanity:  SanityLittleEndian,
		version: 27,
		ranges:  make(map[string]TableRange),
	}
}

func (b *headerBuilder) set(name string, offset, count uint32) *headerBuilder {
	b.ranges[name] = TableRange{Offset: offset, Count: count}
	return b
}

// build writes the 264-byte header into a buffer of at least totalSize
// bytes (padding with zeros beyond the header).
func (b *headerBuilder) build(totalSize uint32) []byte {
	if totalSize < headerSize {
		totalSize = headerSize
	}
	buf := make([]byte, totalSize)

	binary.LittleEndian.PutUint32(buf[0:], b.sanity)
	binary.LittleEndian.PutUint32(buf[4:], uint32(b.version))

	off := 8
	for _, name := range headerFieldOrder {
		tr := b.ranges[name]
		binary.LittleEndian.PutUint32(buf[off:], tr.Offset)
		binary.LittleEndian.PutUint32(buf[off+4:], tr.Count)
		off += 8
	}

	return buf
}

// putCString writes s followed by a NUL terminator at off, returning the
// offset just past the terminator.
func putCString(buf []byte, off uint32, s string) uint32 {
	copy(buf[off:], s)
	buf[off+uint32(len(s))] = 0
	return off + uint32(len(s)) + 1
}

// buildStringPool lays out strs as a Relative-convention string pool: an
// offset table of one uint32 per string, followed immediately by the
// NUL-terminated string bytes in order. It returns the combined
// table+data bytes; each string's index is simply its position in strs.
func buildStringPool(strs []string) []byte {
	table := make([]byte, len(strs)*4)
	var data bytes.Buffer
	for i, s := range strs {
		binary.LittleEndian.PutUint32(table[i*4:], uint32(data.Len()))
		data.WriteString(s)
		data.WriteByte(0)
	}
	return append(table, data.Bytes()...)
}

// putRecord little-endian-encodes rec (a pointer to a fixed-width struct)
// into buf at off, mirroring structUnpack's decode path in reverse.
func putRecord(buf []byte, off uint32, rec interface{}) {
	var b bytes.Buffer
	if err := binary.Write(&b, binary.LittleEndian, rec); err != nil {
		panic(err)
	}
	copy(buf[off:], b.Bytes())
}

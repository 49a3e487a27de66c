// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

// Accepted historical values of header.sanity: big-endian, little-endian,
// and a legacy build's magic. Flipping a single byte of any of these to a
// value outside this set must fail with ErrBadMagic.
const (
	SanityBigEndian    uint32 = 0xFAB11BAF
	SanityLittleEndian uint32 = 0x0B11BFAF
	SanityLegacy       uint32 = 0xEAB11BAF
)

// Supported version range, inclusive.
const (
	MinVersion = 16
	MaxVersion = 32
)

// Guard counts: a well-formed blob from a real AOT build never comes close
// to these. Exceeding one of them means the file is malformed or hostile,
// not merely unusually large.
const (
	maxStringCount          = 100_000_000
	maxTypeDefinitionsCount = 20_000_000
	maxMethodsCount         = 100_000_000
)

// headerSize is sizeof(Il2CppGlobalMetadataHeader): two leading int32
// fields (sanity, version) followed by 32 (offset, count) pairs.
const headerSize = 4 + 4 + 32*8

// TableRange locates a record table within the metadata buffer.
type TableRange struct {
	Offset uint32
	Count  uint32
}

// Header is the parsed, immutable view of the metadata file header. Every
// field used by the core decoder is named explicitly; the remaining
// (offset, count) pairs the original format carries are parsed into
// Unused so the header is complete and the decoder never has to guess at
// how many bytes to skip, but nothing in this package reads through them.
type Header struct {
	Sanity  uint32
	Version int32

	StringLiteral   TableRange
	String          TableRange
	Events          TableRange
	Properties      TableRange
	Methods         TableRange
	Parameters      TableRange
	Fields          TableRange
	TypeDefinitions TableRange
	Images          TableRange
	Assemblies      TableRange

	// Unused carries every other (offset, count)/(offset, size) pair the
	// format defines, keyed by field name, tolerated but not interpreted.
	Unused map[string]TableRange
}

// unusedHeaderFields lists, in on-disk order, every (offset, count) pair
// the header carries that the core decoder does not interpret. Grounded
// on original_source/src/il2cpp_structs.h's Il2CppGlobalMetadataHeader.
var unusedHeaderFields = []string{
	"stringLiteralData",
	"parameterDefaultValues",
	"fieldDefaultValues",
	"fieldAndParameterDefaultValueData",
	"fieldMarshaledSizes",
	"genericParameters",
	"genericParameterConstraints",
	"genericContainers",
	"nestedTypes",
	"interfaces",
	"vtableMethods",
	"interfaceOffsets",
	"metadataUsageLists",
	"metadataUsagePairs",
	"fieldRefs",
	"referencedAssemblies",
	"attributesInfo",
	"attributeTypes",
	"unresolvedVirtualCallParameterTypes",
	"unresolvedVirtualCallParameterRanges",
	"windowsRuntimeTypeNames",
	"exportedTypeDefinitions",
}

// parseHeader validates and decodes the fixed-size header at the start of
// buf. Fatal on MalformedHeader, BadMagic, UnsupportedVersion, or
// ImplausibleCounts; every other field is read without further checks,
// since their tables are only ever accessed through the bounds-checked
// Table Accessor.
func parseHeader(buf []byte) (Header, error) {
	var h Header

	if len(buf) < headerSize {
		return h, ErrMalformedHeader
	}

	read32 := func(off int) uint32 {
		return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	}

	h.Sanity = read32(0)
	h.Version = int32(read32(4))

	switch h.Sanity {
	case SanityBigEndian, SanityLittleEndian, SanityLegacy:
	default:
		return h, ErrBadMagic
	}

	if h.Version < MinVersion || h.Version > MaxVersion {
		return h, ErrUnsupportedVersion
	}

	// Field order exactly mirrors Il2CppGlobalMetadataHeader.
	off := 8
	next := func() TableRange {
		tr := TableRange{Offset: read32(off), Count: read32(off + 4)}
		off += 8
		return tr
	}

	h.StringLiteral = next()
	stringLiteralData := next()
	h.String = next()
	h.Events = next()
	h.Properties = next()
	h.Methods = next()
	parameterDefaultValues := next()
	fieldDefaultValues := next()
	fieldAndParameterDefaultValueData := next()
	fieldMarshaledSizes := next()
	h.Parameters = next()
	h.Fields = next()
	genericParameters := next()
	genericParameterConstraints := next()
	genericContainers := next()
	nestedTypes := next()
	interfaces := next()
	vtableMethods := next()
	interfaceOffsets := next()
	h.TypeDefinitions = next()
	h.Images = next()
	h.Assemblies = next()
	metadataUsageLists := next()
	metadataUsagePairs := next()
	fieldRefs := next()
	referencedAssemblies := next()
	attributesInfo := next()
	attributeTypes := next()
	unresolvedVirtualCallParameterTypes := next()
	unresolvedVirtualCallParameterRanges := next()
	windowsRuntimeTypeNames := next()
	exportedTypeDefinitions := next()

	h.Unused = map[string]TableRange{
		"stringLiteralData":                   stringLiteralData,
		"parameterDefaultValues":              parameterDefaultValues,
		"fieldDefaultValues":                  fieldDefaultValues,
		"fieldAndParameterDefaultValueData":    fieldAndParameterDefaultValueData,
		"fieldMarshaledSizes":                 fieldMarshaledSizes,
		"genericParameters":                   genericParameters,
		"genericParameterConstraints":         genericParameterConstraints,
		"genericContainers":                   genericContainers,
		"nestedTypes":                         nestedTypes,
		"interfaces":                          interfaces,
		"vtableMethods":                       vtableMethods,
		"interfaceOffsets":                    interfaceOffsets,
		"metadataUsageLists":                  metadataUsageLists,
		"metadataUsagePairs":                  metadataUsagePairs,
		"fieldRefs":                           fieldRefs,
		"referencedAssemblies":                referencedAssemblies,
		"attributesInfo":                      attributesInfo,
		"attributeTypes":                      attributeTypes,
		"unresolvedVirtualCallParameterTypes": unresolvedVirtualCallParameterTypes,
		"unresolvedVirtualCallParameterRanges": unresolvedVirtualCallParameterRanges,
		"windowsRuntimeTypeNames":             windowsRuntimeTypeNames,
		"exportedTypeDefinitions":             exportedTypeDefinitions,
	}

	if h.String.Count > maxStringCount {
		return h, ErrImplausibleCounts
	}
	if h.TypeDefinitions.Count > maxTypeDefinitionsCount {
		return h, ErrImplausibleCounts
	}
	if h.Methods.Count > maxMethodsCount {
		return h, ErrImplausibleCounts
	}

	return h, nil
}

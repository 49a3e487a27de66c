// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

// absentIndex is the sentinel value denoting "no such index".
const absentIndex uint32 = 0xFFFFFFFF

// Fixed record sizes in bytes, little-endian, matching
// original_source/src/il2cpp_structs.h exactly.
const (
	imageRecordSize    = 40
	typeRecordSize     = 92
	methodRecordSize   = 32
	fieldRecordSize    = 16
	propertyRecordSize = 20
	assemblyRecordSize = 76
)

// ImageRecord is a single row of the images table.
type ImageRecord struct {
	NameIndex              uint32
	AssemblyIndex          uint32
	TypeStart              uint32
	TypeCount              uint32
	ExportedTypeStart      uint32
	ExportedTypeCount      uint32
	EntryPointIndex        uint32
	Token                  uint32
	CustomAttributeStart   uint32
	CustomAttributeCount   uint32
}

// TypeRecord is a single row of the type-definitions table.
type TypeRecord struct {
	NameIndex              uint32
	NamespaceIndex         uint32
	ByvalTypeIndex         uint32
	ByrefTypeIndex         uint32
	DeclaringTypeIndex     uint32
	ParentIndex            uint32
	ElementTypeIndex       uint32
	GenericContainerIndex  uint32
	Flags                  uint32
	FieldStart             uint32
	MethodStart            uint32
	EventStart             uint32
	PropertyStart          uint32
	NestedTypesStart       uint32
	InterfacesStart        uint32
	VtableStart            uint32
	InterfaceOffsetsStart  uint32
	MethodCount            uint16
	PropertyCount          uint16
	FieldCount             uint16
	EventCount             uint16
	NestedTypeCount        uint16
	VtableCount            uint16
	InterfacesCount        uint16
	InterfaceOffsetsCount  uint16
	Bitfield               uint32
	Token                  uint32
}

// MethodRecord is a single row of the methods table.
type MethodRecord struct {
	NameIndex             uint32
	DeclaringType         uint32
	ReturnType            uint32
	ParameterStart        uint32
	GenericContainerIndex uint32
	Token                 uint32
	Flags                 uint16
	IFlags                uint16
	Slot                  uint16
	ParameterCount        uint16
}

// FieldRecord is a single row of the fields table.
type FieldRecord struct {
	NameIndex     uint32
	DeclaringType uint32
	TypeIndex     uint32
	Token         uint32
}

// PropertyRecord is a single row of the properties table.
type PropertyRecord struct {
	NameIndex uint32
	Get       uint32
	Set       uint32
	Attrs     uint32
	Token     uint32
}

// AssemblyRecord is a single row of the assemblies table. Supplements the
// distilled spec's record set (grounded on Il2CppAssemblyDefinition /
// Il2CppAssemblyNameDefinition) so the assemblies table is reachable
// through AssemblyAt; no emitter in this package reads it.
type AssemblyRecord struct {
	ImageIndex              uint32
	Token                   uint32
	ReferencedAssemblyStart int32
	ReferencedAssemblyCount int32
	NameIndex               uint32
	CultureIndex            uint32
	PublicKeyTokenIndex     uint32
	HashValueIndex          uint32
	HashAlg                 uint32
	HashLen                 int32
	Flags                   uint32
	Major                   int32
	Minor                   int32
	Build                   int32
	Revision                int32
	PublicKey               [8]byte
	AssemblyToken           uint32
	PublicKeyIndex          uint8
	_                       [3]byte // on-disk padding after the trailing uint8
}

// recordAt is the shared bounds-checked random-access primitive behind
// every per-table accessor below: it recomputes rng.Offset + i*stride on
// every call and refuses to read past either the table's declared count or
// the buffer itself. A corrupt single index must not abort the whole
// dump, so failures here are reported as "absent", not as an error.
func recordAt[T any](l *Loader, rng TableRange, stride uint32, i uint32) (T, bool) {
	var rec T
	if i >= rng.Count {
		return rec, false
	}
	off := rng.Offset + i*stride
	if off < rng.Offset || off+stride < off {
		return rec, false
	}
	if err := l.structUnpack(&rec, off, stride); err != nil {
		return rec, false
	}
	return rec, true
}

// ImageAt returns the i-th image record, or ok=false if i is out of range
// or the record does not fit inside the buffer.
func (l *Loader) ImageAt(i uint32) (ImageRecord, bool) {
	return recordAt[ImageRecord](l, l.header.Images, imageRecordSize, i)
}

// TypeAt returns the i-th type-definition record.
func (l *Loader) TypeAt(i uint32) (TypeRecord, bool) {
	return recordAt[TypeRecord](l, l.header.TypeDefinitions, typeRecordSize, i)
}

// MethodAt returns the i-th method record.
func (l *Loader) MethodAt(i uint32) (MethodRecord, bool) {
	return recordAt[MethodRecord](l, l.header.Methods, methodRecordSize, i)
}

// FieldAt returns the i-th field record.
func (l *Loader) FieldAt(i uint32) (FieldRecord, bool) {
	return recordAt[FieldRecord](l, l.header.Fields, fieldRecordSize, i)
}

// PropertyAt returns the i-th property record.
func (l *Loader) PropertyAt(i uint32) (PropertyRecord, bool) {
	return recordAt[PropertyRecord](l, l.header.Properties, propertyRecordSize, i)
}

// AssemblyAt returns the i-th assembly record.
func (l *Loader) AssemblyAt(i uint32) (AssemblyRecord, bool) {
	return recordAt[AssemblyRecord](l, l.header.Assemblies, assemblyRecordSize, i)
}

// tokenForType builds the metadata token for a type-definitions table row:
// table tag 0x02 in the high byte, OR'd with the table-local index.
func tokenForType(i uint32) uint32 { return 0x02000000 | (i & 0x00FFFFFF) }

// tokenForField builds the metadata token for a fields table row.
func tokenForField(i uint32) uint32 { return 0x04000000 | (i & 0x00FFFFFF) }

// tokenForMethod builds the metadata token for a methods table row.
func tokenForMethod(i uint32) uint32 { return 0x06000000 | (i & 0x00FFFFFF) }

// tokenForProperty builds the metadata token for a properties table row.
func tokenForProperty(i uint32) uint32 { return 0x07000000 | (i & 0x00FFFFFF) }

// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// DefaultTopLevelLimit is the count the shipped CLI invocation uses for
// limited-mode dumps: the first 10 of each top-level kind (images, types).
// EmitDumpCS derives the per-type nested method limit as roughly a
// hundredth of this, clamped to at least 1.
const DefaultTopLevelLimit = 10

// nameForToken resolves the best available name for a record given its
// token and raw string index, preferring the symbol override, then the
// decrypted string override, then the raw resolved string, then a
// synthesized placeholder of the form "<table>_<index>".
func (l *Loader) nameForToken(table string, index uint32, token, stringIndex uint32) string {
	if s, ok := l.recoveredSymbols[token]; ok {
		return s
	}
	if s, ok := l.decryptedStrings[stringIndex]; ok {
		return s
	}
	if raw := l.ResolveString(stringIndex); len(raw) > 0 {
		return string(raw)
	}
	return fmt.Sprintf("%s_%d", table, index)
}

// typeFullName returns "namespace.name" for the i-th type. The dot is
// always written, even when the namespace is empty, so a type named "Foo"
// in the root namespace renders as ".Foo" in dump.cs.
func (l *Loader) typeFullName(i uint32, t TypeRecord) string {
	ns := string(l.currentStringFor(t.NamespaceIndex))
	name := l.nameForToken("Type", i, tokenForType(i), t.NameIndex)
	return ns + "." + name
}

// EmitDumpCS writes the pseudo-source declaration listing. limit <= 0
// means unlimited; otherwise only the first `limit` images and types, and
// roughly limit/100 methods per type (at least 1), are processed.
func (l *Loader) EmitDumpCS(w io.Writer, limit int) error {
	l.logger.Infof("emit: writing dump.cs (limit=%d)", limit)
	nestedLimit := limit
	if limit > 0 {
		nestedLimit = limit / 100
		if nestedLimit < 1 {
			nestedLimit = 1
		}
	}

	imageCount := l.header.Images.Count
	if limit > 0 && uint32(limit) < imageCount {
		imageCount = uint32(limit)
	}
	for i := uint32(0); i < imageCount; i++ {
		img, ok := l.ImageAt(i)
		if !ok {
			continue
		}
		imgOffset := l.header.Images.Offset + i*imageRecordSize
		imgName := l.nameForToken("Image", i, 0, img.NameIndex)
		fmt.Fprintf(w, "// Image: %s index=%d offset=0x%X typeStart=%d typeCount=%d\n",
			imgName, i, imgOffset, img.TypeStart, img.TypeCount)
	}

	typeCount := l.header.TypeDefinitions.Count
	if limit > 0 && uint32(limit) < typeCount {
		typeCount = uint32(limit)
	}
	for i := uint32(0); i < typeCount; i++ {
		t, ok := l.TypeAt(i)
		if !ok {
			continue
		}
		typeOffset := l.header.TypeDefinitions.Offset + i*typeRecordSize
		fmt.Fprintf(w, "// Type: %s index=%d offset=0x%X flags=0x%X methods=%d\n",
			l.typeFullName(i, t), i, typeOffset, t.Flags, t.MethodCount)

		methodLimit := uint32(t.MethodCount)
		if nestedLimit > 0 && uint32(nestedLimit) < methodLimit {
			methodLimit = uint32(nestedLimit)
		}
		for j := uint32(0); j < methodLimit; j++ {
			mi := t.MethodStart + j
			m, ok := l.MethodAt(mi)
			if !ok {
				continue
			}
			methodOffset := l.header.Methods.Offset + mi*methodRecordSize
			name := l.nameForToken("Method", mi, tokenForMethod(mi), m.NameIndex)
			fmt.Fprintf(w, "// Method: %s index=%d offset=0x%X token=0x%X flags=0x%X\n",
				name, mi, methodOffset, m.Token, m.Flags)
		}
	}

	return nil
}

// scriptMetadata is the "metadata" key of script.json.
type scriptMetadata struct {
	Version             int32  `json:"version"`
	Sanity              string `json:"sanity"`
	StringCount         uint32 `json:"stringCount"`
	TypeDefinitionsCount uint32 `json:"typeDefinitionsCount"`
	MethodsCount        uint32 `json:"methodsCount"`
	StringOffset        uint32 `json:"stringOffset"`
	TypeDefinitionsOffset uint32 `json:"typeDefinitionsOffset"`
	MethodsOffset       uint32 `json:"methodsOffset"`
}

type scriptType struct {
	Index       uint32 `json:"index"`
	Name        string `json:"name"`
	Namespace   string `json:"namespace"`
	Flags       uint32 `json:"flags"`
	MethodStart uint32 `json:"methodStart"`
	MethodCount uint16 `json:"methodCount"`
	Offset      uint32 `json:"offset"`
	OffsetHex   string `json:"offsetHex"`
}

type scriptMethod struct {
	Index     uint32 `json:"index"`
	Name      string `json:"name"`
	Token     uint32 `json:"token"`
	Flags     uint16 `json:"flags"`
	Offset    uint32 `json:"offset"`
	OffsetHex string `json:"offsetHex"`
}

type scriptIndex struct {
	Metadata scriptMetadata `json:"metadata"`
	Types    []scriptType   `json:"types"`
	Methods  []scriptMethod `json:"methods"`
}

// BuildScriptIndex materializes the full (unlimited) script.json document
// in memory, for callers that want the structured form directly;
// EmitScriptJSON encodes this value.
func (l *Loader) BuildScriptIndex() scriptIndex {
	idx := scriptIndex{
		Metadata: scriptMetadata{
			Version:               l.header.Version,
			Sanity:                fmt.Sprintf("0x%08X", l.header.Sanity),
			StringCount:           l.header.String.Count,
			TypeDefinitionsCount:  l.header.TypeDefinitions.Count,
			MethodsCount:          l.header.Methods.Count,
			StringOffset:          l.header.String.Offset,
			TypeDefinitionsOffset: l.header.TypeDefinitions.Offset,
			MethodsOffset:         l.header.Methods.Offset,
		},
	}

	for i := uint32(0); i < l.header.TypeDefinitions.Count; i++ {
		t, ok := l.TypeAt(i)
		if !ok {
			continue
		}
		offset := l.header.TypeDefinitions.Offset + i*typeRecordSize
		ns := string(l.currentStringFor(t.NamespaceIndex))
		idx.Types = append(idx.Types, scriptType{
			Index:       i,
			Name:        l.nameForToken("Type", i, tokenForType(i), t.NameIndex),
			Namespace:   ns,
			Flags:       t.Flags,
			MethodStart: t.MethodStart,
			MethodCount: t.MethodCount,
			Offset:      offset,
			OffsetHex:   fmt.Sprintf("0x%X", offset),
		})
	}

	for i := uint32(0); i < l.header.Methods.Count; i++ {
		m, ok := l.MethodAt(i)
		if !ok {
			continue
		}
		offset := l.header.Methods.Offset + i*methodRecordSize
		idx.Methods = append(idx.Methods, scriptMethod{
			Index:     i,
			Name:      l.nameForToken("Method", i, tokenForMethod(i), m.NameIndex),
			Token:     m.Token,
			Flags:     m.Flags,
			Offset:    offset,
			OffsetHex: fmt.Sprintf("0x%X", offset),
		})
	}

	return idx
}

// EmitScriptJSON writes the machine-readable index as UTF-8 JSON.
func (l *Loader) EmitScriptJSON(w io.Writer) error {
	l.logger.Infof("emit: writing script.json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l.BuildScriptIndex())
}

// EmitReport writes the plain-text deobfuscation summary: whether
// obfuscation was detected, the override counts, and the first ten
// entries of each override map.
func (l *Loader) EmitReport(w io.Writer, result DeobfuscationResult) error {
	l.logger.Infof("emit: writing deobfuscation report")
	fmt.Fprintf(w, "Obfuscation detected: %t\n", l.isObfuscated)
	fmt.Fprintf(w, "Decrypted strings: %d\n", len(l.decryptedStrings))
	fmt.Fprintf(w, "Recovered symbols: %d\n", len(l.recoveredSymbols))
	if !result.Success {
		fmt.Fprintf(w, "Deobfuscation error: %s\n", result.ErrorMessage)
	}

	fmt.Fprintln(w, "\nDecrypted strings (first 10):")
	for _, k := range firstNKeys(l.decryptedStrings, 10) {
		fmt.Fprintf(w, "  0x%X -> %q\n", k, l.decryptedStrings[k])
	}

	fmt.Fprintln(w, "\nRecovered symbols (first 10):")
	for _, k := range firstNKeys(l.recoveredSymbols, 10) {
		fmt.Fprintf(w, "  0x%X -> %q\n", k, l.recoveredSymbols[k])
	}

	return nil
}

// firstNKeys returns up to n keys of m in ascending order, for stable,
// reproducible report output.
func firstNKeys(m map[uint32]string, n int) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

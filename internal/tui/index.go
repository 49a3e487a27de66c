// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tui

import (
	"encoding/json"
	"fmt"
	"os"
)

// These mirror the script.json shape emitted by (*metadump.Loader).
// EmitScriptJSON. The browser only ever reads this file; it never parses
// a metadata blob itself.
type scriptMetadata struct {
	Version               int32  `json:"version"`
	Sanity                string `json:"sanity"`
	StringCount           uint32 `json:"stringCount"`
	TypeDefinitionsCount  uint32 `json:"typeDefinitionsCount"`
	MethodsCount          uint32 `json:"methodsCount"`
	StringOffset          uint32 `json:"stringOffset"`
	TypeDefinitionsOffset uint32 `json:"typeDefinitionsOffset"`
	MethodsOffset         uint32 `json:"methodsOffset"`
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

func loadScriptIndex(path string) (*scriptIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script index: %w", err)
	}
	defer f.Close()

	var idx scriptIndex
	if err := json.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode script index: %w", err)
	}
	return &idx, nil
}

// methodsForType returns the methods belonging to t, by the contiguous
// [MethodStart, MethodStart+MethodCount) index range mirrored from the
// underlying type table.
func methodsForType(idx *scriptIndex, t scriptType) []scriptMethod {
	lo := t.MethodStart
	hi := t.MethodStart + uint32(t.MethodCount)
	var out []scriptMethod
	for _, m := range idx.Methods {
		if m.Index >= lo && m.Index < hi {
			out = append(out, m)
		}
	}
	return out
}

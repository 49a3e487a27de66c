// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import (
	"fmt"
	"strings"
)

// isObfuscatedName classifies a decoded identifier as obfuscated using
// lexical heuristics only. The short-name and case-ratio checks are known
// to misclassify some legitimate short or all-caps names — that behavior
// is reproduced deliberately, not fixed (see DESIGN.md's Open Question).
func isObfuscatedName(name []byte) bool {
	if len(name) == 0 {
		return true
	}

	if len(name) <= 2 && isAllAlpha(name) {
		return true
	}

	if hasVowelOrConsonantRun(name, 4) {
		return true
	}

	if len(name) >= 6 {
		digits := 0
		letters := 0
		upper := 0
		for _, b := range name {
			if isASCIIDigit(b) {
				digits++
			}
			if isASCIILetter(b) {
				letters++
				if isASCIIUpper(b) {
					upper++
				}
			}
		}
		if float64(digits)/float64(len(name)) > 0.30 {
			return true
		}
		if letters >= 5 && float64(upper)/float64(letters) > 0.50 {
			return true
		}
	}

	return false
}

func isAllAlpha(s []byte) bool {
	for _, b := range s {
		if !isASCIILetter(b) {
			return false
		}
	}
	return true
}

// hasVowelOrConsonantRun reports whether s contains a run of at least n
// consecutive vowels, or a run of at least n consecutive consonants
// (letters that are not vowels); non-letter bytes break any run.
func hasVowelOrConsonantRun(s []byte, n int) bool {
	vowelRun, consRun := 0, 0
	for _, b := range s {
		switch {
		case isASCIIVowel(b):
			vowelRun++
			consRun = 0
		case isASCIILetter(b):
			consRun++
			vowelRun = 0
		default:
			vowelRun, consRun = 0, 0
		}
		if vowelRun >= n || consRun >= n {
			return true
		}
	}
	return false
}

// recoverAllSymbols is the Symbol Inference pass's entry point, wired as
// the Apply action of the short-names profile. It walks types, methods,
// fields, and properties in that order, synthesizing a replacement name
// for every record whose current best name classifies as obfuscated.
func (l *Loader) recoverAllSymbols() error {
	l.logger.Infof("recover-symbols: scanning %d types, %d methods, %d fields, %d properties",
		l.header.TypeDefinitions.Count, l.header.Methods.Count, l.header.Fields.Count, l.header.Properties.Count)
	for i := uint32(0); i < l.header.TypeDefinitions.Count; i++ {
		t, ok := l.TypeAt(i)
		if !ok {
			continue
		}
		name := l.currentStringFor(t.NameIndex)
		if !isObfuscatedName(name) {
			continue
		}
		l.recoveredSymbols[tokenForType(i)] = l.inferTypeName(i, t)
	}

	for i := uint32(0); i < l.header.Methods.Count; i++ {
		m, ok := l.MethodAt(i)
		if !ok {
			continue
		}
		name := l.currentStringFor(m.NameIndex)
		if !isObfuscatedName(name) {
			continue
		}
		l.recoveredSymbols[tokenForMethod(i)] = inferMethodName(i, string(name))
	}

	for i := uint32(0); i < l.header.Fields.Count; i++ {
		f, ok := l.FieldAt(i)
		if !ok {
			continue
		}
		name := l.currentStringFor(f.NameIndex)
		if !isObfuscatedName(name) {
			continue
		}
		l.recoveredSymbols[tokenForField(i)] = fmt.Sprintf("Field_%d", i)
	}

	for i := uint32(0); i < l.header.Properties.Count; i++ {
		p, ok := l.PropertyAt(i)
		if !ok {
			continue
		}
		name := l.currentStringFor(p.NameIndex)
		if !isObfuscatedName(name) {
			continue
		}
		l.recoveredSymbols[tokenForProperty(i)] = fmt.Sprintf("Property_%d", i)
	}

	l.logger.Infof("recover-symbols: synthesized %d replacement names", len(l.recoveredSymbols))
	return nil
}

// currentStringFor fetches the current best raw-ish name for a string
// index: the decrypted override if one exists, else the pool string.
func (l *Loader) currentStringFor(index uint32) []byte {
	if s, ok := l.decryptedStrings[index]; ok {
		return []byte(s)
	}
	return l.ResolveString(index)
}

// inferTypeName synthesizes a replacement for an obfuscated type name
// using parent-type and namespace context, per the spec's exact
// precedence: parent name match, then namespace substring match, else a
// bare indexed placeholder.
func (l *Loader) inferTypeName(idx uint32, t TypeRecord) string {
	if t.ParentIndex != absentIndex {
		if parent, ok := l.TypeAt(t.ParentIndex); ok {
			parentName := string(l.currentStringFor(parent.NameIndex))
			switch {
			case parentName == "MonoBehaviour":
				return fmt.Sprintf("GameBehavior_%d", idx)
			case parentName == "ScriptableObject":
				return fmt.Sprintf("GameData_%d", idx)
			case strings.Contains(parentName, "Component"):
				return fmt.Sprintf("Component_%d", idx)
			}
		}
	}

	ns := string(l.currentStringFor(t.NamespaceIndex))
	switch {
	case strings.Contains(ns, "UI"):
		return fmt.Sprintf("UIElement_%d", idx)
	case strings.Contains(ns, "Network"):
		return fmt.Sprintf("NetworkClass_%d", idx)
	case strings.Contains(ns, "Audio"):
		return fmt.Sprintf("AudioClass_%d", idx)
	}

	return fmt.Sprintf("Class_%d", idx)
}

// inferMethodName synthesizes a replacement for an obfuscated method name
// from its raw prefix.
func inferMethodName(idx uint32, raw string) string {
	switch {
	case raw == ".ctor":
		return "Constructor"
	case raw == ".cctor":
		return "StaticConstructor"
	case strings.HasPrefix(raw, "get"):
		return fmt.Sprintf("GetValue_%d", idx)
	case strings.HasPrefix(raw, "set"):
		return fmt.Sprintf("SetValue_%d", idx)
	default:
		return fmt.Sprintf("Method_%d", idx)
	}
}

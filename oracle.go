// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import "bytes"

// seedVocabulary is the fixed list of substrings whose presence is strong
// evidence that a byte string is a real identifier, URL, or keyword rather
// than leftover noise from a failed decryption attempt.
var seedVocabulary = [][]byte{
	[]byte("System."), []byte("UnityEngine."), []byte("Mono."), []byte("Console."),
	[]byte("Debug."), []byte("get_"), []byte("set_"), []byte("ctor"), []byte("cctor"),
	[]byte("ToString"), []byte("Equals"), []byte("Length"), []byte("Count"),
	[]byte("Add"), []byte("Remove"), []byte("Clear"), []byte("Find"),
	[]byte("www."), []byte("http"), []byte(".com"), []byte(".net"), []byte(".org"),
	[]byte(".js"), []byte(".css"), []byte("json"), []byte("xml"), []byte("api."),
	[]byte("user"), []byte("password"), []byte("token"), []byte("class"),
	[]byte("public"), []byte("private"), []byte("protected"), []byte("static"),
	[]byte("void"), []byte("int"), []byte("string"), []byte("bool"),
	[]byte("float"), []byte("double"),
}

// hasVocabulary reports whether s contains any seed vocabulary substring.
func hasVocabulary(s []byte) bool {
	for _, v := range seedVocabulary {
		if bytes.Contains(s, v) {
			return true
		}
	}
	return false
}

// plausible is the Plausibility Oracle: the shared gate used by both the
// Decryption Trial Engine and the Obfuscation Profiler. A candidate passes
// only if its printable ratio clears the 0.80 floor AND it either matches
// the seed vocabulary or is at least 40% letters.
func plausible(s []byte) bool {
	if printableRatio(s) < 0.80 {
		return false
	}
	if hasVocabulary(s) {
		return true
	}
	return letterRatio(s) >= 0.40
}

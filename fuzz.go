// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

// Fuzz is the legacy github.com/dvyukov/go-fuzz entry point, adapted from
// the teacher's PE-header fuzz target to this decoder: it accepts the
// input only when the header is well-formed and a full detect+deobfuscate
// pass completes without panicking.
func Fuzz(data []byte) int {
	l, err := NewBytes(data, &Options{})
	if err != nil {
		return 0
	}
	if err := l.Load(); err != nil {
		return 0
	}
	l.DetectObfuscation()
	if l.IsObfuscated() {
		l.ApplyDeobfuscation()
	}
	return 1
}

// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

// sampleSize bounds how many records of each relevant table the profiler
// inspects — enough to classify the blob without paying for a full scan.
const sampleSize = 1000

// Profile is one obfuscation detector: a name, a pure predicate over a
// sample of the loaded buffer, and the remediation action to run when the
// predicate fires. Re-architected from the original's pair of
// side-effecting closures into a tagged-by-name struct: Detect never
// mutates the Loader, and Apply receives the Loader and writes its
// override maps.
type Profile struct {
	Name   string
	Detect func(l *Loader) bool
	Apply  func(l *Loader) error
}

// defaultProfiles returns the two detectors the spec defines: string
// encryption (gates the Decryption Trial Engine) and short names (gates
// Symbol Inference).
func defaultProfiles() []Profile {
	return []Profile{
		{
			Name:   "string-encryption",
			Detect: detectStringEncryption,
			Apply:  (*Loader).decryptAllStrings,
		},
		{
			Name:   "short-names",
			Detect: detectShortNames,
			Apply:  (*Loader).recoverAllSymbols,
		},
	}
}

// detectStringEncryption aggregates the non-printable-byte ratio across a
// bounded sample of the string pool and triggers above 0.50.
func detectStringEncryption(l *Loader) bool {
	n := l.header.String.Count
	if n > sampleSize {
		n = sampleSize
	}
	if n == 0 {
		return false
	}

	var totalBytes, badBytes int
	for i := uint32(0); i < n; i++ {
		s := l.rawPoolString(i)
		for _, b := range s {
			totalBytes++
			if !isPrintableOrNUL(b) {
				badBytes++
			}
		}
	}
	if totalBytes == 0 {
		return false
	}
	return float64(badBytes)/float64(totalBytes) > 0.50
}

// detectShortNames measures the proportion of sampled type names of
// length <= 2 and triggers above 0.70. This is a known, deliberately
// reproduced false-positive source (e.g. "Id", "OK" are valid short
// names) — see DESIGN.md's Open Question.
func detectShortNames(l *Loader) bool {
	n := l.header.TypeDefinitions.Count
	if n > sampleSize {
		n = sampleSize
	}
	if n == 0 {
		return false
	}

	short := 0
	for i := uint32(0); i < n; i++ {
		t, ok := l.TypeAt(i)
		if !ok {
			continue
		}
		name := l.ResolveString(t.NameIndex)
		if len(name) <= 2 {
			short++
		}
	}
	return float64(short)/float64(n) > 0.70
}

// DetectObfuscation runs every registered profile's Detect predicate and
// sets IsObfuscated if any of them fires. It is read-only: no override map
// is touched.
func (l *Loader) DetectObfuscation() {
	l.isObfuscated = false
	l.triggeredProfiles = l.triggeredProfiles[:0]
	for _, p := range l.profiles {
		if p.Detect(l) {
			l.isObfuscated = true
			l.triggeredProfiles = append(l.triggeredProfiles, p)
		}
	}
	if l.isObfuscated {
		l.logger.Infof("obfuscation detected: %d profile(s) triggered", len(l.triggeredProfiles))
	} else {
		l.logger.Infof("no obfuscation detected")
	}
}

// DeobfuscationResult reports the outcome of ApplyDeobfuscation. A failed
// run never invalidates overrides already written by an earlier,
// successful profile.
type DeobfuscationResult struct {
	Success             bool
	ErrorMessage        string
	DecryptedStrings    int
	RecoveredSymbols    int
}

// ApplyDeobfuscation runs every triggered profile's Apply action once.
// Any panic or error from an individual profile is caught here and turned
// into a failed result without discarding overrides earlier profiles
// already wrote — this is the one top-level catch the spec requires.
func (l *Loader) ApplyDeobfuscation() (result DeobfuscationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = DeobfuscationResult{
				Success:      false,
				ErrorMessage: "internal error during deobfuscation",
			}
			l.logger.Errorf("deobfuscation internal error: %v", r)
		}
	}()

	for _, p := range l.triggeredProfiles {
		if err := p.Apply(l); err != nil {
			l.logger.Warnf("profile %q failed: %v", p.Name, err)
			return DeobfuscationResult{
				Success:      false,
				ErrorMessage: err.Error(),
			}
		}
	}

	return DeobfuscationResult{
		Success:          true,
		DecryptedStrings: len(l.decryptedStrings),
		RecoveredSymbols: len(l.recoveredSymbols),
	}
}

// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

// decryptAllStrings is the Decryption Trial Engine's entry point, wired as
// the Apply action of the string-encryption profile. It walks the full
// string pool (not just the sample DetectObfuscation used) and writes a
// decrypted-strings override for every index whose raw bytes qualify for
// trial and whose trial-decryption succeeds. No transform ever mutates
// the underlying buffer; a failed trial simply leaves no override, and
// callers fall back to the raw string.
func (l *Loader) decryptAllStrings() error {
	l.logger.Infof("decrypt: trialing %d pool strings", l.header.String.Count)
	for i := uint32(0); i < l.header.String.Count; i++ {
		raw := l.rawPoolString(i)
		if len(raw) == 0 {
			continue
		}
		if decoded, ok := tryDecrypt(raw); ok {
			l.decryptedStrings[i] = string(decoded)
		}
	}
	l.logger.Infof("decrypt: recovered %d plaintext strings", len(l.decryptedStrings))
	return nil
}

// qualifiesForTrial reports whether more than 30% of s's bytes are
// non-printable and non-NUL — the gate a string must clear before any
// transform is attempted at all.
func qualifiesForTrial(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	bad := 0
	for _, b := range s {
		if !isPrintableOrNUL(b) {
			bad++
		}
	}
	return float64(bad)/float64(len(s)) > 0.30
}

// tryDecrypt attempts every transform in the fixed order the spec pins —
// XOR, Caesar, Base64, ROT13, reverse — and returns the bytes of the first
// one that passes the Plausibility Oracle. ok is false if s doesn't
// qualify for trial or if nothing passes.
func tryDecrypt(s []byte) (out []byte, ok bool) {
	if !qualifiesForTrial(s) {
		return nil, false
	}

	if d, ok := tryXOR(s); ok {
		return d, true
	}
	if d, ok := tryCaesar(s); ok {
		return d, true
	}
	if d, ok := tryBase64(s); ok {
		return d, true
	}
	if d, ok := tryROT13(s); ok {
		return d, true
	}
	if d, ok := tryReverse(s); ok {
		return d, true
	}
	return nil, false
}

// tryXOR XORs every non-NUL byte with each key 1..255 in turn and keeps
// the first result the Plausibility Oracle accepts.
func tryXOR(s []byte) ([]byte, bool) {
	out := make([]byte, len(s))
	for k := 1; k <= 255; k++ {
		key := byte(k)
		for i, b := range s {
			if b == 0 {
				out[i] = 0
				continue
			}
			out[i] = b ^ key
		}
		if plausible(out) {
			cp := make([]byte, len(out))
			copy(cp, out)
			return cp, true
		}
	}
	return nil, false
}

// tryCaesar rotates every ASCII letter back by shift 1..25, preserving
// case, and keeps the first result the Plausibility Oracle accepts.
func tryCaesar(s []byte) ([]byte, bool) {
	out := make([]byte, len(s))
	for shift := 1; shift <= 25; shift++ {
		for i, b := range s {
			out[i] = caesarShift(b, shift)
		}
		if plausible(out) {
			cp := make([]byte, len(out))
			copy(cp, out)
			return cp, true
		}
	}
	return nil, false
}

func caesarShift(b byte, shift int) byte {
	switch {
	case b >= 'a' && b <= 'z':
		return byte(int('a') + mod26(int(b-'a')-shift))
	case b >= 'A' && b <= 'Z':
		return byte(int('A') + mod26(int(b-'A')-shift))
	default:
		return b
	}
}

func mod26(n int) int {
	n %= 26
	if n < 0 {
		n += 26
	}
	return n
}

// rot13 applies the single-shift ROT13 substitution to letters only.
func rot13(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		out[i] = caesarShift(b, 13)
	}
	return out
}

// tryROT13 applies ROT13 once and checks the result against the oracle.
func tryROT13(s []byte) ([]byte, bool) {
	out := rot13(s)
	if plausible(out) {
		return out, true
	}
	return nil, false
}

// tryReverse byte-reverses the input and checks it against the oracle.
func tryReverse(s []byte) ([]byte, bool) {
	out := make([]byte, len(s))
	for i, b := range s {
		out[len(s)-1-i] = b
	}
	if plausible(out) {
		return out, true
	}
	return nil, false
}

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64DecodeTable [256]int8

func init() {
	for i := range base64DecodeTable {
		base64DecodeTable[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		base64DecodeTable[base64Alphabet[i]] = int8(i)
	}
}

// isBase64Alphabet reports whether every byte of s is in the base64
// alphabet (A-Z a-z 0-9 + / =).
func isBase64Alphabet(s []byte) bool {
	for _, b := range s {
		if b == '=' {
			continue
		}
		if base64DecodeTable[b] < 0 {
			return false
		}
	}
	return true
}

// tryBase64 decodes s as standard base64, stopping at the first '=', only
// if every byte qualifies for the alphabet; otherwise it is skipped
// entirely rather than attempted.
func tryBase64(s []byte) ([]byte, bool) {
	if !isBase64Alphabet(s) {
		return nil, false
	}

	var out []byte
	var acc uint32
	var bits int
	for _, b := range s {
		if b == '=' {
			break
		}
		v := base64DecodeTable[b]
		acc = acc<<6 | uint32(v)
		bits += 6
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>uint(bits)))
		}
	}

	if len(out) == 0 {
		return nil, false
	}
	if plausible(out) {
		return out, true
	}
	return nil, false
}

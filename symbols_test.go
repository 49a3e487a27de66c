// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadump

import "testing"

func TestIsObfuscatedNameTruthTable(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"", true},
		{"a", true},
		{"Ab", true},
		{"Abc", false},
		{"aeiou", true},
		{"abcdXYZW", true},
		{"x1234567", true},
		{"SystemCore", false},
		{"AbCdEfGh", false},
		{"ABCDefgh1", false},
	}

	for _, tt := range tests {
		if got := isObfuscatedName([]byte(tt.name)); got != tt.want {
			t.Errorf("isObfuscatedName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInferMethodName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{".ctor", "Constructor"},
		{".cctor", "StaticConstructor"},
		{"get_Foo", "GetValue_3"},
		{"set_Bar", "SetValue_3"},
		{"xyz", "Method_3"},
	}
	for _, tt := range tests {
		if got := inferMethodName(3, tt.raw); got != tt.want {
			t.Errorf("inferMethodName(3, %q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

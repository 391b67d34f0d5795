// internal/room/code_test.go
package room

import (
	"strings"
	"testing"
)

func TestGenerateCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateCode()
		if len(code) != CodeLength {
			t.Fatalf("expected %d-char code, got %q", CodeLength, code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(codeAlphabet, ch) {
				t.Fatalf("code %q contains %q outside the alphabet", code, ch)
			}
		}
		seen[code] = true
	}
	// 200 draws from a 36^7 space colliding would mean the generator is broken.
	if len(seen) < 199 {
		t.Fatalf("expected ~200 distinct codes, got %d", len(seen))
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  ab3x9qz \n"); got != "AB3X9QZ" {
		t.Fatalf("expected AB3X9QZ, got %q", got)
	}
}

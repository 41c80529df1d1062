package internal

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID("session")
	if !strings.HasPrefix(id, "session-") {
		t.Errorf("NewID() = %q, want session- prefix", id)
	}
	if len(id) <= len("session-") {
		t.Errorf("NewID() = %q, no identifier after prefix", id)
	}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID("x")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestRandomSuffix(t *testing.T) {
	for i := 0; i < 20; i++ {
		suffix := randomSuffix()
		if len(suffix) != 6 {
			t.Fatalf("randomSuffix() = %q, want 6 hex chars", suffix)
		}
		for _, c := range suffix {
			if !strings.ContainsRune("0123456789abcdef", c) {
				t.Fatalf("randomSuffix() = %q, non-hex char %q", suffix, c)
			}
		}
	}
}

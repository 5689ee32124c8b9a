package randx

import (
	"strings"
	"testing"
)

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})

	for range 100 {
		id := NewID()
		if id == "" {
			t.Fatal("NewID returned empty string")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("NewID returned duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestBase62String(t *testing.T) {
	s, err := Base62String(16)
	if err != nil {
		t.Fatalf("Base62String returned error: %v", err)
	}
	if len(s) != 16 {
		t.Fatalf("len = %d, want 16", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(Base62Chars, c) {
			t.Errorf("character %q outside the Base62 set", c)
		}
	}
}

func TestUsernameSuffixLength(t *testing.T) {
	suffix, err := UsernameSuffix()
	if err != nil {
		t.Fatalf("UsernameSuffix returned error: %v", err)
	}
	if len(suffix) != UsernameSuffixLength {
		t.Errorf("len = %d, want %d", len(suffix), UsernameSuffixLength)
	}
}

package idgen

import (
	"regexp"
	"strings"
	"testing"
)

func TestNew_PrefixAndLength(t *testing.T) {
	id, err := New(PrefixApplication)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !strings.HasPrefix(id, PrefixApplication) {
		t.Errorf("New() = %q, want prefix %q", id, PrefixApplication)
	}
	if got, want := len(id), len(PrefixApplication)+length; got != want {
		t.Errorf("New() length = %d, want %d", got, want)
	}
}

func TestNew_Charset(t *testing.T) {
	re := regexp.MustCompile(`^tal-[a-zA-Z0-9]+$`)
	for range 50 {
		id, err := New(PrefixTalent)
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		if !re.MatchString(id) {
			t.Fatalf("New() = %q has characters outside the alphabet", id)
		}
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool, 500)
	for range 500 {
		id, err := New(PrefixProcess)
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

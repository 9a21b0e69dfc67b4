package notes

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Clean Code", "clean-code"},
		{"Chapter 1: Meaningful Names", "chapter-1-meaningful-names"},
		{"  Small!  ", "small"},
		{"Café Déjà Vu", "cafe-deja-vu"},
		{"C++ & Go", "c-go"},
		{"!!!", "section"},
		{"", "section"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSluggerUnique(t *testing.T) {
	var s Slugger
	got := []string{
		s.Unique("summary"),
		s.Unique("summary"),
		s.Unique("summary-2"),
		s.Unique("summary"),
		s.Unique("other"),
	}
	want := []string{"summary", "summary-2", "summary-2-2", "summary-3", "other"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unique call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

package graph

import "testing"

func TestIsAbsent(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"None", true},
		{"none", true},
		{" NULL ", true},
		{"null", true},
		{"Nonesuch", false},
		{"0", false},
		{"Letter Home", false},
	}

	for _, tt := range tests {
		if got := IsAbsent(tt.in); got != tt.want {
			t.Errorf("IsAbsent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Letter Home ", "Letter Home"},
		{"None", ""},
		{"", ""},
		{" papr", "papr"},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

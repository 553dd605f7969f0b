package text

import "testing"

func TestResolveFamily(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"serif", "Times New Roman"},
		{"sans-serif", DefaultFamily},
		{"system-ui", DefaultFamily},
		{"monospace", "Consolas"},
		{"ui-monospace", "Consolas"},
		{"cursive", "Comic Sans MS"},
		{"fantasy", "Impact"},
		// Keyword matching is case-insensitive.
		{"Serif", "Times New Roman"},
		{"MONOSPACE", "Consolas"},
		// Concrete family names pass through untouched.
		{"Georgia", "Georgia"},
		{"Noto Sans CJK", "Noto Sans CJK"},
		// Empty input falls back to the default family.
		{"", DefaultFamily},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ResolveFamily(tt.in); got != tt.want {
				t.Errorf("ResolveFamily(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

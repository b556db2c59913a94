package textfilter

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "A damp cellar.", "A damp cellar."},
		{"surrounding whitespace", "\n\n  A damp cellar.  \n", "A damp cellar."},
		{"multi-line collapses", "A damp cellar.\n\nWater drips.", "A damp cellar. Water drips."},
		{"code fence", "```\nA damp cellar.\n```", "A damp cellar."},
		{"tagged fence", "```text\nA damp cellar.\n```", "A damp cellar."},
		{"label", "Description: A damp cellar.", "A damp cellar."},
		{"room label", "Room description: A damp cellar.", "A damp cellar."},
		{"quoted", `"A damp cellar."`, "A damp cellar."},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

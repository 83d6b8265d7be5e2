package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \n\t ",
			want:  "",
		},
		{
			name:  "single token",
			input: "Design",
			want:  "Design",
		},
		{
			name:  "collapses spaces",
			input: "Alice   Smith",
			want:  "Alice Smith",
		},
		{
			name:  "collapses tabs",
			input: "\tPhase\t 1 ",
			want:  "Phase 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeWhitespace(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Alice Smith", want: "alice smith"},
		{input: "  ALICE   smith ", want: "alice smith"},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeKey(tc.input); got != tc.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeLowerTrimSpace(t *testing.T) {
	if got := NormalizeLowerTrimSpace("  Start Date \t"); got != "start date" {
		t.Fatalf("expected %q, got %q", "start date", got)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "crlf", input: "a\r\nb", want: "a\nb"},
		{name: "cr", input: "a\rb", want: "a\nb"},
		{name: "mixed", input: "a\r\nb\rc\n", want: "a\nb\nc\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeNewlines(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTrimTrailing(t *testing.T) {
	if got := TrimTrailingCarriageReturn("line\r"); got != "line" {
		t.Errorf("TrimTrailingCarriageReturn = %q", got)
	}
	if got := TrimTrailingCarriageReturn("line\r\r"); got != "line\r" {
		t.Errorf("expected only one carriage return removed, got %q", got)
	}
	if got := TrimTrailingNewlines("text\r\n\n"); got != "text" {
		t.Errorf("TrimTrailingNewlines = %q", got)
	}
}

func TestIsIndented(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{input: "  - Start: 2025-01-01", want: true},
		{input: "\t- Priority: high", want: true},
		{input: "- **Task**", want: false},
		{input: "", want: false},
	}

	for _, tc := range cases {
		if got := IsIndented(tc.input); got != tc.want {
			t.Errorf("IsIndented(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

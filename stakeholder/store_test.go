package stakeholder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteStakeholders_SortsByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stakeholders.jsonl")
	people := []*Stakeholder{
		{Name: "zoe", Availability: 1},
		{Name: "Ada", Availability: 0.5},
		{Name: "mia", Availability: 1},
	}
	if err := writeStakeholders(path, people); err != nil {
		t.Fatalf("writeStakeholders: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", data)
	}
	for i, want := range []string{`"name":"Ada"`, `"name":"mia"`, `"name":"zoe"`} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %s, want %s", i+1, lines[i], want)
		}
	}
	if people[0].Name != "zoe" {
		t.Errorf("expected caller's slice order to be kept, got %v", names(people))
	}
}

func TestWriteStakeholders_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stakeholders.jsonl")
	err := writeStakeholders(path, []*Stakeholder{{Name: "Ada", Availability: 3}})
	if !errors.Is(err, ErrInvalidAvailability) {
		t.Fatalf("expected ErrInvalidAvailability, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file to be written, stat err = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be removed, stat err = %v", err)
	}
}

func TestDecodeStakeholders(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
		line    string
	}{
		{name: "blank lines", input: "\n{\"name\":\"Ada\",\"availability\":1}\n  \n{\"name\":\"Bo\",\"availability\":0}\n", want: []string{"Ada", "Bo"}},
		{name: "bad json", input: "{\"name\":\"Ada\",\"availability\":1}\n{nope\n", line: "line 2"},
		{name: "invalid record", input: "\n\n{\"name\":\"Ada\",\"availability\":-1}\n", wantErr: ErrInvalidAvailability, line: "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			people, err := decodeStakeholders(strings.NewReader(tt.input))
			if tt.line == "" {
				if err != nil {
					t.Fatalf("decodeStakeholders: %v", err)
				}
				if got := strings.Join(names(people), ","); got != strings.Join(tt.want, ",") {
					t.Fatalf("expected %v, got %s", tt.want, got)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.line) {
				t.Fatalf("expected error mentioning %q, got %v", tt.line, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

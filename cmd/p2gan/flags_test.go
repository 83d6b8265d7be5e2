package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestHasChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "example"}
	cmd.Flags().String("role", "", "")
	cmd.Flags().Bool("json", false, "")

	if hasChangedFlags(cmd, "role", "json") {
		t.Fatal("expected no changed flags")
	}

	if err := cmd.Flags().Set("json", "true"); err != nil {
		t.Fatalf("set json: %v", err)
	}

	if !hasChangedFlags(cmd, "role", "json") {
		t.Fatal("expected changed flags")
	}
}

func TestDateFlag(t *testing.T) {
	var start time.Time
	cmd := &cobra.Command{Use: "example"}
	addDateFlag(cmd, &start, "start", "")

	flag := cmd.Flags().Lookup("start")
	if flag == nil {
		t.Fatal("expected start flag")
	}
	if flag.Value.Type() != "date" {
		t.Fatalf("expected flag type date, got %q", flag.Value.Type())
	}
	if flag.Value.String() != "" {
		t.Fatalf("expected empty default, got %q", flag.Value.String())
	}

	if err := cmd.Flags().Set("start", "2025-03-04"); err != nil {
		t.Fatalf("set start: %v", err)
	}
	want := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected %s, got %s", want, start)
	}
	if flag.Value.String() != "2025-03-04" {
		t.Fatalf("expected 2025-03-04, got %q", flag.Value.String())
	}
}

func TestDateFlagRejectsInvalid(t *testing.T) {
	var start time.Time
	cmd := &cobra.Command{Use: "example"}
	addDateFlag(cmd, &start, "start", "")

	for _, value := range []string{"03/04/2025", "2025-13-01", "tomorrow"} {
		if err := cmd.Flags().Set("start", value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
	if !start.IsZero() {
		t.Fatalf("expected start to stay unset, got %s", start)
	}
}

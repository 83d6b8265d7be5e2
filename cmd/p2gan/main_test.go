package main

import "testing"

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "p2gan" {
		t.Fatalf("expected root command name p2gan, got %q", rootCmd.Use)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	for _, name := range []string{"convert", "schedule", "skeleton", "stakeholders"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if cmd.Name() != name {
			t.Fatalf("expected command %s, got %s", name, cmd.Name())
		}
	}
}

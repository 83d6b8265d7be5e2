package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tensorworks-llc/p2gan/calendar"
	"github.com/tensorworks-llc/p2gan/internal/config"
	"github.com/tensorworks-llc/p2gan/plan"
	"github.com/tensorworks-llc/p2gan/schedule"
)

const testDefinition = `name: Pipeline
tasks:
  - name: Design
    duration: 2
  - name: Build
    duration: 3
    depends_on:
      - task: Design
`

const testMarkdown = `# Project: Launch

## Tasks
- **Write** (2 days)
- **Publish** (1 day)
  - Dependencies: Write
`

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	return path
}

func withConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	prev := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = prev })
}

func TestLoadProject_StartFallback(t *testing.T) {
	withConfig(t, nil)

	start := time.Date(2025, 1, 6, 15, 30, 0, 0, time.UTC)
	for _, tc := range []struct {
		name    string
		file    string
		content string
		first   string
		second  string
	}{
		{name: "yaml", file: "plan.yaml", content: testDefinition, first: "Design", second: "Build"},
		{name: "markdown", file: "plan.md", content: testMarkdown, first: "Write", second: "Publish"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, report, err := loadProject(writePlan(t, tc.file, tc.content), loadOptions{start: start})
			if err != nil {
				t.Fatalf("loadProject: %v", err)
			}
			if !p.Start.Equal(calendar.Date(2025, 1, 6)) {
				t.Fatalf("expected start 2025-01-06, got %s", calendar.Format(p.Start))
			}
			if report.HasCycles() {
				t.Fatalf("unexpected cycle: %v", report.Forced)
			}
			first, _ := p.FindByName(tc.first)
			second, _ := p.FindByName(tc.second)
			if first == nil || second == nil {
				t.Fatalf("expected tasks %q and %q", tc.first, tc.second)
			}
			if !second.Start.Equal(calendar.Date(2025, 1, 8)) {
				t.Fatalf("expected %s to start 2025-01-08, got %s", tc.second, calendar.Format(second.Start))
			}
		})
	}
}

func TestLoadProject_AuthoredStartWins(t *testing.T) {
	withConfig(t, nil)

	path := writePlan(t, "plan.yaml", "start: 2025-02-03\n"+testDefinition)
	p, _, err := loadProject(path, loadOptions{start: calendar.Date(2025, 1, 6)})
	if err != nil {
		t.Fatalf("loadProject: %v", err)
	}
	if !p.Start.Equal(calendar.Date(2025, 2, 3)) {
		t.Fatalf("expected plan start to win, got %s", calendar.Format(p.Start))
	}
}

func TestLoadProject_MissingStart(t *testing.T) {
	withConfig(t, nil)

	_, _, err := loadProject(writePlan(t, "plan.md", testMarkdown), loadOptions{})
	if !errors.Is(err, plan.ErrMissingStartDate) {
		t.Fatalf("expected ErrMissingStartDate, got %v", err)
	}
}

func TestLoadProject_UnsupportedInput(t *testing.T) {
	withConfig(t, nil)

	_, _, err := loadProject(writePlan(t, "plan.txt", "hello"), loadOptions{})
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Fatalf("expected ErrUnsupportedInput, got %v", err)
	}
}

func TestLoadProject_MissingFile(t *testing.T) {
	withConfig(t, nil)

	_, _, err := loadProject(filepath.Join(t.TempDir(), "missing.md"), loadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestApplyConfig(t *testing.T) {
	withConfig(t, &config.Config{
		Project: config.Project{Locale: "de_DE", Version: "3.3", Company: "Initech"},
		Calendar: config.Calendar{
			WorkingDays: []string{"mon", "tue", "wed", "thu"},
			Holidays:    []string{"2025-01-01"},
		},
	})

	p := schedule.NewProject("Configured", calendar.Date(2025, 1, 6))
	if err := applyConfig(p); err != nil {
		t.Fatalf("applyConfig: %v", err)
	}
	if p.Locale != "de_DE" || p.Version != "3.3" || p.Company != "Initech" {
		t.Fatalf("unexpected project fields: %q %q %q", p.Locale, p.Version, p.Company)
	}
	if p.Calendar.IsWorkingDay(calendar.Date(2025, 1, 10)) {
		t.Fatal("expected Friday to be a non-working day")
	}
	if p.Calendar.IsWorkingDay(calendar.Date(2025, 1, 1)) {
		t.Fatal("expected the holiday to be a non-working day")
	}
}

func TestLoadProject_DefinitionUsesConfiguredCalendar(t *testing.T) {
	withConfig(t, &config.Config{Calendar: config.Calendar{WorkingDays: []string{"mon", "tue", "wed", "thu"}}})

	path := writePlan(t, "plan.yaml", "start: 2025-01-06\n"+testDefinition+"  - name: Ship\n    duration: 1\n    depends_on:\n      - task: Build\n")
	p, _, err := loadProject(path, loadOptions{})
	if err != nil {
		t.Fatalf("loadProject: %v", err)
	}
	ship, ok := p.FindByName("Ship")
	if !ok {
		t.Fatal("expected Ship task")
	}
	if !ship.Start.Equal(calendar.Date(2025, 1, 14)) {
		t.Fatalf("expected Ship to skip Friday and start 2025-01-14, got %s", calendar.Format(ship.Start))
	}
}

func TestApplyConfig_KeepsPlanValues(t *testing.T) {
	withConfig(t, &config.Config{
		Project:  config.Project{Locale: "de_DE", Company: "Initech"},
		Calendar: config.Calendar{WorkingDays: []string{"mon"}},
	})

	p := schedule.NewProject("Planned", calendar.Date(2025, 1, 6))
	p.Locale = "fr_FR"
	p.Company = "Acme"
	p.Calendar = calendar.Calendar{IncludeWeekends: true}
	if err := applyConfig(p); err != nil {
		t.Fatalf("applyConfig: %v", err)
	}
	if p.Locale != "fr_FR" || p.Company != "Acme" {
		t.Fatalf("expected plan values to be kept, got %q %q", p.Locale, p.Company)
	}
	if !p.Calendar.IsWorkingDay(calendar.Date(2025, 1, 11)) {
		t.Fatal("expected the plan calendar to be kept")
	}
}

func TestApplyConfig_InvalidCalendar(t *testing.T) {
	withConfig(t, &config.Config{Calendar: config.Calendar{WorkingDays: []string{"someday"}}})

	p := schedule.NewProject("Broken", calendar.Date(2025, 1, 6))
	if err := applyConfig(p); !errors.Is(err, calendar.ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

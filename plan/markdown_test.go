package plan

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/tensorworks-llc/p2gan/calendar"
	"github.com/tensorworks-llc/p2gan/schedule"
	"github.com/tensorworks-llc/p2gan/stakeholder"
)

func parseString(t *testing.T, doc string, opts Options) *Result {
	t.Helper()
	result, err := ParseMarkdown(strings.NewReader(doc), opts)
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	return result
}

func parseWebsite(t *testing.T, opts Options) *Result {
	t.Helper()
	f, err := os.Open("testdata/website.md")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	result, err := ParseMarkdown(f, opts)
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	return result
}

func mustFind(t *testing.T, p *schedule.Project, name string) *schedule.Task {
	t.Helper()
	task, ok := p.FindByName(name)
	if !ok {
		t.Fatalf("task %q not found", name)
	}
	return task
}

func TestParseMarkdown_Metadata(t *testing.T) {
	p := parseWebsite(t, Options{}).Project

	if p.Name != "Website Redesign" {
		t.Errorf("expected project name 'Website Redesign', got %q", p.Name)
	}
	if !p.Start.Equal(calendar.Date(2025, 2, 3)) {
		t.Errorf("expected start 2025-02-03, got %s", calendar.Format(p.Start))
	}
	if p.DurationDays != 28 {
		t.Errorf("expected 28 duration days, got %d", p.DurationDays)
	}
	if p.Company != "Acme" || p.Description != "Refresh the public site." {
		t.Errorf("unexpected company/description: %q %q", p.Company, p.Description)
	}
}

func TestParseMarkdown_Hierarchy(t *testing.T) {
	p := parseWebsite(t, Options{}).Project

	if len(p.Tasks) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(p.Tasks))
	}
	build := p.Tasks[1]
	if build.Name != "Phase 2: Build" || len(build.Children) != 2 {
		t.Fatalf("unexpected second phase: %q with %d children", build.Name, len(build.Children))
	}
	backend := build.Children[1]
	if backend.Name != "Backend" || backend.Level != 1 {
		t.Errorf("expected Backend at level 1, got %q at %d", backend.Name, backend.Level)
	}

	var ids []int
	for _, task := range p.Flatten() {
		ids = append(ids, task.ID)
	}
	for i, id := range ids {
		if id != i {
			t.Fatalf("expected IDs in declaration order, got %v", ids)
		}
	}

	wireframes := mustFind(t, p, "Wireframes")
	if wireframes.Duration != 5 {
		t.Errorf("expected 1 week to be 5 days, got %d", wireframes.Duration)
	}
	if wireframes.Notes != "Low fidelity first" {
		t.Errorf("unexpected notes: %q", wireframes.Notes)
	}
	if got := mustFind(t, p, "Requirements").Priority; got != schedule.PriorityHigh {
		t.Errorf("expected high priority, got %v", got)
	}
	if got := mustFind(t, p, "Templates").Progress; got != 40 {
		t.Errorf("expected progress 40, got %d", got)
	}
}

func TestParseMarkdown_Milestones(t *testing.T) {
	p := parseWebsite(t, Options{}).Project

	if got := p.MilestoneCount(); got != 3 {
		t.Errorf("expected 3 milestones, got %d", got)
	}
	if len(p.Milestones) != 1 || p.Milestones[0].Name != "Launch" {
		t.Fatalf("expected only Launch at project level, got %v", p.Milestones)
	}

	approved := mustFind(t, p, "Plan approved")
	if !approved.IsMilestone || !approved.Start.Equal(calendar.Date(2025, 2, 14)) {
		t.Errorf("unexpected Plan approved milestone: %+v", approved)
	}
	if approved.ParentID == nil || *approved.ParentID != 0 {
		t.Errorf("expected Plan approved under phase 0, got %v", approved.ParentID)
	}

	done := mustFind(t, p, "Build done")
	if done.Progress != 100 {
		t.Errorf("expected checked milestone at 100%%, got %d", done.Progress)
	}
	if done.ParentID == nil || *done.ParentID != mustFind(t, p, "Backend").ID {
		t.Errorf("expected Build done under Backend, got %v", done.ParentID)
	}
}

func TestParseMarkdown_Dependencies(t *testing.T) {
	result := parseWebsite(t, Options{})
	p := result.Project

	requirements := mustFind(t, p, "Requirements")
	wireframes := mustFind(t, p, "Wireframes")
	templates := mustFind(t, p, "Templates")
	api := mustFind(t, p, "API")
	launch := mustFind(t, p, "Launch")
	phase2 := mustFind(t, p, "Phase 2: Build")

	tests := []struct {
		pred, succ *schedule.Task
		typ        schedule.DependencyType
		lag        int
	}{
		{requirements, wireframes, schedule.FinishToStart, 0},
		{requirements, api, schedule.FinishToStart, 0},
		{wireframes, templates, schedule.FinishToStart, 0},
		{templates, api, schedule.StartToStart, 1},
		{phase2, launch, schedule.FinishToStart, 0},
	}
	for _, tt := range tests {
		found := false
		for _, dep := range tt.pred.Dependencies {
			if dep.SuccessorID == tt.succ.ID && dep.Type == tt.typ && dep.Lag == tt.lag {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s -> %s (%v%+d), got %v", tt.pred.Name, tt.succ.Name, tt.typ, tt.lag, tt.pred.Dependencies)
		}
	}

	if len(result.Unresolved) != 1 {
		t.Fatalf("expected one unresolved dependency, got %v", result.Unresolved)
	}
	if got := result.Unresolved[0]; got.Name != "Nonexistent task" || got.Task != "API" || got.Line != 31 {
		t.Errorf("unexpected unresolved dependency: %+v", got)
	}
}

func TestParseMarkdown_ResourcesAndAllocations(t *testing.T) {
	p := parseWebsite(t, Options{}).Project

	if len(p.Resources) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(p.Resources))
	}
	if len(p.Roles) != 2 || p.Roles[0].Name != "Designer" || p.Roles[1].Name != "Developer" {
		t.Errorf("unexpected roles: %v", p.Roles)
	}
	if p.Resources[0].Function != "1" || p.Resources[2].Function != "2" {
		t.Errorf("unexpected functions: %q %q", p.Resources[0].Function, p.Resources[2].Function)
	}

	if len(p.Allocations) != 4 {
		t.Fatalf("expected 4 allocations, got %v", p.Allocations)
	}
	api := mustFind(t, p, "API")
	last := p.Allocations[3]
	if last.TaskID != api.ID || last.ResourceID != 2 || !last.Responsible || last.Load != 100 {
		t.Errorf("unexpected allocation: %+v", last)
	}
	if len(api.ResourceIDs) != 1 || api.ResourceIDs[0] != 2 {
		t.Errorf("expected API assigned to Carol, got %v", api.ResourceIDs)
	}
}

func TestParseMarkdown_ResolvesEndToEnd(t *testing.T) {
	p := parseWebsite(t, Options{}).Project
	report, err := schedule.Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if report.HasCycles() {
		t.Fatalf("unexpected forced tasks: %v", report.Forced)
	}

	tests := []struct {
		name       string
		start, end string
	}{
		{"Requirements", "2025-02-03", "2025-02-05"},
		{"Wireframes", "2025-02-06", "2025-02-12"},
		{"Plan approved", "2025-02-14", "2025-02-14"},
		{"Phase 1: Planning", "2025-02-03", "2025-02-14"},
		{"Templates", "2025-02-13", "2025-02-19"},
		{"API", "2025-02-14", "2025-02-19"},
		{"Launch", "2025-03-07", "2025-03-07"},
	}
	for _, tt := range tests {
		task := mustFind(t, p, tt.name)
		if got := calendar.Format(task.Start); got != tt.start {
			t.Errorf("%s start = %s, want %s", tt.name, got, tt.start)
		}
		if got := calendar.Format(task.End); got != tt.end {
			t.Errorf("%s end = %s, want %s", tt.name, got, tt.end)
		}
	}
}

func TestParseMarkdown_Stakeholders(t *testing.T) {
	dir := stakeholder.New()
	dir.Add(stakeholder.Stakeholder{Name: "Alice Smith", Email: "alice@example.com", StandardRate: 80, Availability: 1})

	p := parseWebsite(t, Options{Stakeholders: dir}).Project

	if p.Resources[0].Contacts != "alice@example.com" || p.Resources[0].StandardRate != 80 {
		t.Errorf("expected Alice enriched from directory, got %+v", p.Resources[0])
	}
	if dir.Len() != 3 {
		t.Errorf("expected Bob and Carol to be created, directory has %d", dir.Len())
	}
	carol, ok := dir.Get("Carol")
	if !ok || carol.Role != "Developer" || !carol.InProject("Website Redesign") {
		t.Errorf("unexpected Carol: %+v", carol)
	}
}

func TestParseMarkdown_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
		line string
	}{
		{"no heading", "## Tasks\n- **A** (1 day)\n", ErrMissingProjectHeader, ""},
		{"empty", "", ErrMissingProjectHeader, ""},
		{"bad start", "# Project: X\n\n**Start Date:** 03/01/2025\n", ErrInvalidDate, "line 3"},
		{"bad milestone date", "# Project: X\n**Start Date:** 2025-01-01\n## Milestones\n- [ ] Go live (soon)\n", ErrInvalidDate, "line 4"},
		{"no start", "# Project: X\n## Tasks\n- **A** (1 day)\n", ErrMissingStartDate, ""},
		{"duration overflow", "# Project: X\n**Start Date:** 2025-01-01\n## Tasks\n- **A** (99999999999999999999 days)\n", ErrInvalidDuration, "line 4"},
		{"lag overflow", "# Project: X\n**Start Date:** 2025-01-01\n## Tasks\n- **A** (1 day)\n- **B** (1 day)\n  - Dependencies: A (FS+99999999999999999999)\n", ErrInvalidDuration, "line 6"},
		{"project duration overflow", "# Project: X\n**Duration:** 99999999999999999999 weeks\n", ErrInvalidDuration, "line 2"},
		{"progress overflow", "# Project: X\n**Start Date:** 2025-01-01\n## Tasks\n- **A** (1 day)\n  - Progress: 99999999999999999999%\n", schedule.ErrInvalidProgress, "line 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMarkdown(strings.NewReader(tt.doc), Options{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.line != "" && !strings.Contains(err.Error(), tt.line) {
				t.Errorf("expected %q in error %q", tt.line, err.Error())
			}
		})
	}
}

func TestParseMarkdown_StartFromOptions(t *testing.T) {
	result := parseString(t, "# Roadmap\n## Tasks\n- Draft (2 days)\n", Options{Start: calendar.Date(2025, 5, 5)})
	p := result.Project
	if p.Name != "Roadmap" {
		t.Errorf("expected any level-1 heading to name the project, got %q", p.Name)
	}
	if !p.Start.Equal(calendar.Date(2025, 5, 5)) {
		t.Errorf("expected start from options, got %s", calendar.Format(p.Start))
	}
	if got := mustFind(t, p, "Draft").Duration; got != 2 {
		t.Errorf("expected unbolded task with 2 days, got %d", got)
	}
}

func TestParseMarkdown_HeadingLevels(t *testing.T) {
	doc := `# Project: Levels
**Start Date:** 2025-01-06
## Tasks
#### Orphan group
- **Loose** (1 day)
### Phase
#### Sub
##### Group
- **Deep** (1 day)
### Next
- **Top** (1 day)
`
	p := parseString(t, doc, Options{}).Project

	if len(p.Tasks) != 3 {
		t.Fatalf("expected 3 root summaries, got %d", len(p.Tasks))
	}
	deep := mustFind(t, p, "Deep")
	if deep.Level != 3 {
		t.Errorf("expected Deep at level 3, got %d", deep.Level)
	}
	top := mustFind(t, p, "Top")
	if top.Level != 1 || *top.ParentID != mustFind(t, p, "Next").ID {
		t.Errorf("expected Top under Next, got level %d parent %v", top.Level, top.ParentID)
	}
	loose := mustFind(t, p, "Loose")
	if *loose.ParentID != mustFind(t, p, "Orphan group").ID {
		t.Errorf("expected Loose under Orphan group")
	}
}

func TestParseMarkdown_TeamSectionAndUnknownResource(t *testing.T) {
	doc := `# Project: Team
**Start Date:** 2025-01-06
## Team
- **Dana** (Lead)
## Tasks
- **Plan** (2 days, dana)
- **Ship** (1 day, Eve)
`
	result := parseString(t, doc, Options{})
	p := result.Project

	if len(p.Resources) != 1 || p.Resources[0].Name != "Dana" {
		t.Fatalf("expected Dana from the Team section, got %v", p.Resources)
	}
	if len(p.Allocations) != 1 || p.Allocations[0].TaskID != mustFind(t, p, "Plan").ID {
		t.Errorf("expected one allocation for Plan, got %v", p.Allocations)
	}
	if len(result.UnknownResources) != 1 || result.UnknownResources[0].Name != "Eve" {
		t.Errorf("expected Eve to be reported unknown, got %v", result.UnknownResources)
	}
}

func TestParseMarkdown_DropsSelfAndDuplicateEdges(t *testing.T) {
	doc := `# Project: Edges
**Start Date:** 2025-01-06
## Tasks
- **Design** (1 day)
- **Design review** (1 day)
  - Dependencies: Design, Design, Design review
  - Start: After Design
`
	result := parseString(t, doc, Options{})
	p := result.Project

	design := mustFind(t, p, "Design")
	review := mustFind(t, p, "Design review")
	if len(design.Dependencies) != 1 || design.Dependencies[0].SuccessorID != review.ID {
		t.Errorf("expected a single Design -> Design review edge, got %v", design.Dependencies)
	}
	if len(review.Dependencies) != 0 {
		t.Errorf("expected no self edge, got %v", review.Dependencies)
	}
	if len(result.Unresolved) != 0 {
		t.Errorf("expected self reference to resolve partially, got %v", result.Unresolved)
	}
}

// Package plan builds schedule projects from authored plans: markdown
// documents, YAML definitions and a generic skeleton.
package plan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tensorworks-llc/p2gan/calendar"
	internalstrings "github.com/tensorworks-llc/p2gan/internal/strings"
	"github.com/tensorworks-llc/p2gan/schedule"
	"github.com/tensorworks-llc/p2gan/stakeholder"
)

var (
	// ErrMissingProjectHeader is returned when a document has no level-1 heading.
	ErrMissingProjectHeader = errors.New("missing project heading")

	// ErrInvalidDate is returned for a date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrMissingStartDate is returned when neither the document nor the
	// options supply a start date.
	ErrMissingStartDate = errors.New("missing start date")

	// ErrInvalidDuration is returned for a duration or lag that does not fit
	// in an int.
	ErrInvalidDuration = errors.New("invalid duration")
)

const maxLineBytes = 1024 * 1024

// StakeholderDirectory enriches resources with known contact details and
// records which projects people work on.
type StakeholderDirectory interface {
	FindOrCreate(name, role string) (*stakeholder.Stakeholder, error)
	AssignToProject(name, project string) bool
	Save() error
}

// Options control markdown parsing.
type Options struct {
	// Start is used when the document has no start date.
	Start time.Time

	// Stakeholders, when set, is consulted for every resource and saved
	// after parsing.
	Stakeholders StakeholderDirectory
}

// UnresolvedDependency is a dependency name that matched no task.
type UnresolvedDependency struct {
	Task string `json:"task"`
	Name string `json:"name"`
	Line int    `json:"line"`
}

// UnknownResource is a task annotation naming a resource that was never declared.
type UnknownResource struct {
	Task string `json:"task"`
	Name string `json:"name"`
	Line int    `json:"line"`
}

// Result is a parsed document. The project's dates are not yet resolved.
type Result struct {
	Project          *schedule.Project
	Unresolved       []UnresolvedDependency
	UnknownResources []UnknownResource
}

type section int

const (
	sectionNone section = iota
	sectionResources
	sectionTasks
	sectionMilestones
)

var (
	headingPattern   = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	metadataPattern  = regexp.MustCompile(`^\*\*([^*:]+):\*\*\s*(.*)$`)
	checkboxPattern  = regexp.MustCompile(`^-\s*\[([ xX]?)\]\s*([^(]+?)\s*(?:\(([^)]*)\))?\s*$`)
	itemPattern      = regexp.MustCompile(`^-\s+(?:\*\*([^*]+)\*\*|([^(*]+?))\s*(?:\(([^)]*)\))?\s*$`)
	propertyPattern  = regexp.MustCompile(`^-\s+([A-Za-z ]+):\s*(.*)$`)
	durationPattern  = regexp.MustCompile(`(?i)^(\d+)\s*(days?|d|weeks?|w)$`)
	projectDuration  = regexp.MustCompile(`(?i)^(\d+)\s*(weeks?|days?)`)
	depSuffixPattern = regexp.MustCompile(`(?i)^(.*?)\s*\((fs|ss|ff|sf)\s*([+-]\s*\d+)?\)$`)
	progressPattern  = regexp.MustCompile(`(\d+)\s*%?`)
	afterPattern     = regexp.MustCompile(`(?i)^after\s+(.+)$`)
)

type pendingDependency struct {
	successor *schedule.Task
	name      string
	typ       schedule.DependencyType
	lag       int
	line      int
}

type pendingResource struct {
	task *schedule.Task
	name string
	line int
}

type parser struct {
	opts    Options
	project *schedule.Project
	result  *Result

	section section

	// parents holds the open summary tasks for heading levels 3, 4 and 5.
	parents [3]*schedule.Task

	last   *schedule.Task
	nextID int

	// declared lists tasks in declaration order for name lookups.
	declared []*schedule.Task

	roles     map[string]int
	resources map[string]int

	deps     []pendingDependency
	assigned []pendingResource
}

// ParseMarkdown reads a markdown project plan.
//
// The document must have a level-1 heading naming the project. Level-2
// headings open the Resources (or Team), Tasks and Milestones sections.
// Within Tasks, level-3 to level-5 headings open nested summary tasks, list
// items declare tasks and checkboxes declare milestones. Indented list items
// set properties on the task declared just before them.
func ParseMarkdown(r io.Reader, opts Options) (*Result, error) {
	p := &parser{
		opts:      opts,
		roles:     make(map[string]int),
		resources: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := p.line(internalstrings.TrimTrailingCarriageReturn(scanner.Text()), lineNum); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	if p.project == nil {
		return nil, ErrMissingProjectHeader
	}
	if p.project.Start.IsZero() {
		if opts.Start.IsZero() {
			return nil, ErrMissingStartDate
		}
		p.project.Start = calendar.Truncate(opts.Start)
	}

	p.resolveResources()
	p.resolveDependencies()

	if opts.Stakeholders != nil {
		for _, resource := range p.project.Resources {
			opts.Stakeholders.AssignToProject(resource.Name, p.project.Name)
		}
		if err := opts.Stakeholders.Save(); err != nil {
			return nil, fmt.Errorf("save stakeholders: %w", err)
		}
	}

	return p.result, nil
}

func (p *parser) line(raw string, lineNum int) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if m := headingPattern.FindStringSubmatch(trimmed); m != nil && raw[0] == '#' {
		return p.heading(len(m[1]), m[2])
	}

	if m := metadataPattern.FindStringSubmatch(trimmed); m != nil && p.section == sectionNone {
		return p.metadata(internalstrings.NormalizeLowerTrimSpace(m[1]), strings.TrimSpace(m[2]), lineNum)
	}

	if !strings.HasPrefix(trimmed, "- ") && !strings.HasPrefix(trimmed, "-[") {
		return nil
	}
	indented := internalstrings.IsIndented(raw)

	switch p.section {
	case sectionResources:
		if !indented {
			return p.resource(trimmed)
		}
	case sectionTasks:
		if indented {
			return p.property(trimmed, lineNum)
		}
		if checkboxPattern.MatchString(trimmed) {
			return p.milestone(trimmed, p.deepest(), lineNum)
		}
		return p.task(trimmed, lineNum)
	case sectionMilestones:
		if !indented {
			return p.milestone(trimmed, nil, lineNum)
		}
		return p.property(trimmed, lineNum)
	}
	return nil
}

func (p *parser) heading(level int, title string) error {
	switch {
	case level == 1:
		if p.project != nil {
			return nil
		}
		name := strings.TrimSpace(title)
		if rest, ok := strings.CutPrefix(name, "Project:"); ok {
			name = strings.TrimSpace(rest)
		}
		p.project = schedule.NewProject(name, time.Time{})
		p.result = &Result{Project: p.project}
		return nil
	case p.project == nil:
		return ErrMissingProjectHeader
	case level == 2:
		p.parents = [3]*schedule.Task{}
		p.last = nil
		switch internalstrings.NormalizeLowerTrimSpace(title) {
		case "resources", "team":
			p.section = sectionResources
		case "tasks":
			p.section = sectionTasks
		case "milestones":
			p.section = sectionMilestones
		default:
			p.section = sectionNone
		}
		return nil
	case p.section != sectionTasks:
		return nil
	}

	level = min(level, 5)
	summary := p.newTask(strings.TrimSpace(title), 0)
	p.project.AddTask(summary, p.parent(level))
	summary.IsSummary = true
	p.parents[level-3] = summary
	for i := level - 2; i < len(p.parents); i++ {
		p.parents[i] = nil
	}
	return nil
}

// parent returns the deepest open summary above heading level.
func (p *parser) parent(level int) *schedule.Task {
	for i := min(level-3, len(p.parents)) - 1; i >= 0; i-- {
		if p.parents[i] != nil {
			return p.parents[i]
		}
	}
	return nil
}

// deepest returns the innermost open summary.
func (p *parser) deepest() *schedule.Task {
	return p.parent(6)
}

func (p *parser) metadata(key, value string, lineNum int) error {
	if p.project == nil {
		return ErrMissingProjectHeader
	}
	switch key {
	case "start date", "start":
		start, err := calendar.Parse(value)
		if err != nil {
			return fmt.Errorf("%w on line %d: %q", ErrInvalidDate, lineNum, value)
		}
		p.project.Start = start
	case "duration":
		m := projectDuration.FindStringSubmatch(value)
		if m == nil {
			return nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("%w on line %d: project duration %q", ErrInvalidDuration, lineNum, value)
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "week") {
			n *= 7
		}
		p.project.DurationDays = n
	case "company":
		p.project.Company = value
	case "description":
		p.project.Description = value
	case "link", "web link", "website":
		p.project.WebLink = value
	}
	return nil
}

func (p *parser) resource(line string) error {
	m := itemPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	name := internalstrings.NormalizeWhitespace(m[1] + m[2])
	role := internalstrings.NormalizeWhitespace(m[3])
	if name == "" {
		return nil
	}
	if _, exists := p.resources[internalstrings.NormalizeKey(name)]; exists {
		return nil
	}

	resource := schedule.Resource{
		ID:       len(p.project.Resources),
		Name:     name,
		Function: p.function(role),
	}
	if p.opts.Stakeholders != nil {
		person, err := p.opts.Stakeholders.FindOrCreate(name, role)
		if err != nil {
			return fmt.Errorf("stakeholder %s: %w", name, err)
		}
		resource.Contacts = person.Email
		resource.Phone = person.Phone
		resource.StandardRate = person.StandardRate
	}
	resource = p.project.AddResource(resource)
	p.resources[internalstrings.NormalizeKey(name)] = resource.ID
	return nil
}

// function returns the role ID for role, declaring it on first use.
func (p *parser) function(role string) string {
	if role == "" {
		return schedule.DefaultFunction
	}
	key := internalstrings.NormalizeKey(role)
	id, ok := p.roles[key]
	if !ok {
		id = len(p.project.Roles) + 1
		p.roles[key] = id
		p.project.Roles = append(p.project.Roles, schedule.Role{ID: id, Name: role})
	}
	return strconv.Itoa(id)
}

func (p *parser) newTask(name string, duration int) *schedule.Task {
	task := schedule.NewTask(p.nextID, name, duration)
	p.nextID++
	p.declared = append(p.declared, task)
	p.last = task
	return task
}

func (p *parser) task(line string, lineNum int) error {
	m := itemPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	name := strings.TrimSpace(m[1] + m[2])
	if name == "" {
		return nil
	}

	duration := 1
	var resources []string
	for _, part := range strings.Split(m[3], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if d := durationPattern.FindStringSubmatch(part); d != nil {
			var err error
			if duration, err = strconv.Atoi(d[1]); err != nil {
				return fmt.Errorf("%w on line %d: task %q has duration %q", ErrInvalidDuration, lineNum, name, part)
			}
			if strings.HasPrefix(strings.ToLower(d[2]), "w") {
				duration *= 5
			}
			continue
		}
		resources = append(resources, part)
	}

	task := p.newTask(name, duration)
	p.project.AddTask(task, p.deepest())
	for _, resource := range resources {
		p.assigned = append(p.assigned, pendingResource{task: task, name: resource, line: lineNum})
	}
	return nil
}

func (p *parser) milestone(line string, parent *schedule.Task, lineNum int) error {
	var name, dateText string
	done := false
	if m := checkboxPattern.FindStringSubmatch(line); m != nil {
		done = strings.EqualFold(m[1], "x")
		name, dateText = m[2], m[3]
	} else if m := itemPattern.FindStringSubmatch(line); m != nil {
		name, dateText = m[1]+m[2], m[3]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	var date time.Time
	if dateText = strings.TrimSpace(dateText); dateText != "" {
		parsed, err := calendar.Parse(dateText)
		if err != nil {
			return fmt.Errorf("%w on line %d: milestone %q has date %q", ErrInvalidDate, lineNum, name, dateText)
		}
		date = parsed
	}

	milestone := p.newTask(name, 0)
	milestone.MarkMilestone(date)
	if done {
		milestone.Progress = 100
	}
	p.project.AddMilestone(milestone, parent)
	return nil
}

func (p *parser) property(line string, lineNum int) error {
	if p.last == nil {
		return nil
	}
	m := propertyPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	key := internalstrings.NormalizeLowerTrimSpace(m[1])
	value := strings.TrimSpace(m[2])
	task := p.last

	switch key {
	case "start":
		if after := afterPattern.FindStringSubmatch(value); after != nil {
			return p.depend(task, after[1], lineNum)
		}
		start, err := calendar.Parse(value)
		if err != nil {
			return fmt.Errorf("%w on line %d: task %q has start %q", ErrInvalidDate, lineNum, task.Name, value)
		}
		if task.IsMilestone {
			task.MarkMilestone(start)
		} else {
			task.Start = start
		}
	case "dependencies", "depends on", "after":
		for _, name := range strings.Split(value, ",") {
			if err := p.depend(task, name, lineNum); err != nil {
				return err
			}
		}
	case "priority":
		if priority, err := schedule.ParsePriority(value); err == nil {
			task.Priority = priority
		}
	case "progress":
		if pm := progressPattern.FindStringSubmatch(value); pm != nil {
			progress, err := strconv.Atoi(pm[1])
			if err != nil {
				return fmt.Errorf("%w on line %d: task %q has progress %q", schedule.ErrInvalidProgress, lineNum, task.Name, value)
			}
			task.Progress = min(progress, 100)
		}
	case "notes", "note":
		if task.Notes != "" {
			task.Notes += "\n"
		}
		task.Notes += value
	case "link", "url":
		task.WebLink = value
	case "color", "colour":
		task.Color = value
	}
	return nil
}

// depend queues a dependency of successor on the task called name. A
// trailing "(SS+2)" style suffix sets the relationship type and lag.
func (p *parser) depend(successor *schedule.Task, name string, lineNum int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	pending := pendingDependency{
		successor: successor,
		name:      name,
		typ:       schedule.FinishToStart,
		line:      lineNum,
	}
	if m := depSuffixPattern.FindStringSubmatch(name); m != nil {
		pending.name = strings.TrimSpace(m[1])
		pending.typ, _ = schedule.ParseDependencyType(m[2])
		if m[3] != "" {
			lag, err := strconv.Atoi(strings.ReplaceAll(m[3], " ", ""))
			if err != nil {
				return fmt.Errorf("%w on line %d: dependency %q has lag %q", ErrInvalidDuration, lineNum, name, m[3])
			}
			pending.lag = lag
		}
	}
	p.deps = append(p.deps, pending)
	return nil
}

// lookup finds the task a dependency name refers to: an exact name first,
// then a case-insensitive match, then the first task other than self whose
// name contains it.
func (p *parser) lookup(name string, self *schedule.Task) *schedule.Task {
	for _, task := range p.declared {
		if task.Name == name {
			return task
		}
	}
	for _, task := range p.declared {
		if strings.EqualFold(task.Name, name) {
			return task
		}
	}
	lower := strings.ToLower(name)
	for _, task := range p.declared {
		if task != self && strings.Contains(strings.ToLower(task.Name), lower) {
			return task
		}
	}
	return nil
}

func (p *parser) resolveDependencies() {
	for _, dep := range p.deps {
		predecessor := p.lookup(dep.name, dep.successor)
		if predecessor == nil {
			p.result.Unresolved = append(p.result.Unresolved, UnresolvedDependency{
				Task: dep.successor.Name,
				Name: dep.name,
				Line: dep.line,
			})
			continue
		}
		if predecessor == dep.successor || predecessor.HasDependencyOn(dep.successor.ID) {
			continue
		}
		predecessor.AddDependency(dep.successor.ID, dep.typ, dep.lag)
	}
}

func (p *parser) resolveResources() {
	for _, assignment := range p.assigned {
		id, ok := p.resources[internalstrings.NormalizeKey(assignment.name)]
		if !ok {
			p.result.UnknownResources = append(p.result.UnknownResources, UnknownResource{
				Task: assignment.task.Name,
				Name: assignment.name,
				Line: assignment.line,
			})
			continue
		}
		task := assignment.task
		if containsInt(task.ResourceIDs, id) {
			continue
		}
		task.ResourceIDs = append(task.ResourceIDs, id)
		p.project.AddAllocation(schedule.Allocation{
			TaskID:      task.ID,
			ResourceID:  id,
			Function:    p.project.Resources[id].Function,
			Responsible: true,
			Load:        100,
		})
	}
}

func containsInt(values []int, value int) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

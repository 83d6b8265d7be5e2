package plan

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tensorworks-llc/p2gan/calendar"
	internalstrings "github.com/tensorworks-llc/p2gan/internal/strings"
	"github.com/tensorworks-llc/p2gan/schedule"
)

// ErrInvalidDefinition is returned for a YAML definition that cannot be
// turned into a project.
var ErrInvalidDefinition = errors.New("invalid project definition")

// Definition is the YAML form of a project.
type Definition struct {
	Name        string `yaml:"name"`
	Start       string `yaml:"start"`
	Company     string `yaml:"company"`
	Description string `yaml:"description"`
	WebLink     string `yaml:"web_link"`
	Locale      string `yaml:"locale"`
	Version     string `yaml:"version"`

	Calendar         CalendarDefinition   `yaml:"calendar"`
	Roles            []schedule.Role      `yaml:"roles"`
	Resources        []ResourceDefinition `yaml:"resources"`
	Tasks            []TaskDefinition     `yaml:"tasks"`
	Milestones       []TaskDefinition     `yaml:"milestones"`
	Vacations        []VacationDefinition `yaml:"vacations"`
	CustomProperties []PropertyDefinition `yaml:"custom_properties"`
}

// CalendarDefinition configures working days.
type CalendarDefinition struct {
	WorkingDays     []string `yaml:"working_days"`
	Holidays        []string `yaml:"holidays"`
	IncludeWeekends bool     `yaml:"include_weekends"`
}

// ResourceDefinition declares a resource. Role names a role by name; Function
// sets the raw function ID instead.
type ResourceDefinition struct {
	Name     string  `yaml:"name"`
	Role     string  `yaml:"role"`
	Function string  `yaml:"function"`
	Email    string  `yaml:"email"`
	Phone    string  `yaml:"phone"`
	Rate     float64 `yaml:"rate"`
}

// TaskDefinition declares a task, summary or milestone.
type TaskDefinition struct {
	// ID is optional. Tasks without one are numbered after the largest
	// explicit ID.
	ID        *int     `yaml:"id"`
	Name      string   `yaml:"name"`
	Start     string   `yaml:"start"`
	Date      string   `yaml:"date"`
	Duration  int      `yaml:"duration"`
	Progress  int      `yaml:"progress"`
	Priority  string   `yaml:"priority"`
	Milestone bool     `yaml:"milestone"`
	Notes     string   `yaml:"notes"`
	Link      string   `yaml:"link"`
	Color     string   `yaml:"color"`
	Cost      *float64 `yaml:"cost"`

	Resources  []string          `yaml:"resources"`
	DependsOn  []DependencyRef   `yaml:"depends_on"`
	Properties map[string]string `yaml:"properties"`
	Tasks      []TaskDefinition  `yaml:"tasks"`
}

// DependencyRef names a predecessor by ID or name.
type DependencyRef struct {
	Task     string `yaml:"task"`
	Type     string `yaml:"type"`
	Lag      int    `yaml:"lag"`
	Hardness string `yaml:"hardness"`
}

// VacationDefinition marks a resource unavailable between two dates.
type VacationDefinition struct {
	Resource string `yaml:"resource"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
}

// PropertyDefinition declares a custom task column.
type PropertyDefinition struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Default      string `yaml:"default"`
	SimpleSelect string `yaml:"simple_select"`
}

// LoadDefinition decodes a YAML project definition. Unknown fields are
// rejected. The returned project's dates are not yet resolved.
func LoadDefinition(r io.Reader) (*schedule.Project, error) {
	var def Definition
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return def.Project()
}

type builder struct {
	project   *schedule.Project
	nextID    int
	byName    map[string]*schedule.Task
	byID      map[int]*schedule.Task
	resources map[string]int
	deps      []pendingRef
}

type pendingRef struct {
	successor *schedule.Task
	ref       DependencyRef
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, fmt.Sprintf(format, args...))
}

func optionalDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := calendar.Parse(value)
	if err != nil {
		return time.Time{}, invalid("%s: %v", field, err)
	}
	return t, nil
}

// Project converts the definition into a project.
func (def *Definition) Project() (*schedule.Project, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, invalid("name is required")
	}
	start, err := optionalDate("start", def.Start)
	if err != nil {
		return nil, err
	}

	p := schedule.NewProject(def.Name, start)
	p.Company = def.Company
	p.Description = def.Description
	p.WebLink = def.WebLink
	if def.Locale != "" {
		p.Locale = def.Locale
	}
	if def.Version != "" {
		p.Version = def.Version
	}
	if p.Calendar, err = def.Calendar.build(); err != nil {
		return nil, err
	}
	p.Roles = append(p.Roles, def.Roles...)
	for _, prop := range def.CustomProperties {
		p.CustomProperties = append(p.CustomProperties, schedule.CustomTaskProperty{
			ID:           prop.ID,
			Name:         prop.Name,
			ValueType:    prop.Type,
			DefaultValue: prop.Default,
			SimpleSelect: prop.SimpleSelect,
		})
	}

	b := &builder{
		project:   p,
		byName:    make(map[string]*schedule.Task),
		byID:      make(map[int]*schedule.Task),
		resources: make(map[string]int),
	}
	b.nextID = maxExplicitID(def.Tasks, maxExplicitID(def.Milestones, -1)) + 1

	for _, rd := range def.Resources {
		if err := b.resource(rd); err != nil {
			return nil, err
		}
	}
	for i := range def.Tasks {
		if err := b.task(&def.Tasks[i], nil, false); err != nil {
			return nil, err
		}
	}
	for i := range def.Milestones {
		if err := b.task(&def.Milestones[i], nil, true); err != nil {
			return nil, err
		}
	}
	for _, vd := range def.Vacations {
		if err := b.vacation(vd); err != nil {
			return nil, err
		}
	}
	if err := b.resolveDependencies(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	return p, nil
}

// build leaves WorkingDays empty when the definition names none, so the
// zero Calendar stays recognizable and configured calendars can apply.
func (c CalendarDefinition) build() (calendar.Calendar, error) {
	cal := calendar.Calendar{IncludeWeekends: c.IncludeWeekends}
	if len(c.WorkingDays) > 0 {
		week, err := calendar.ParseWorkWeek(c.WorkingDays)
		if err != nil {
			return calendar.Calendar{}, invalid("calendar: %v", err)
		}
		cal.WorkingDays = week
	}
	for _, h := range c.Holidays {
		day, err := calendar.Parse(h)
		if err != nil {
			return calendar.Calendar{}, invalid("calendar holiday: %v", err)
		}
		cal.Holidays = append(cal.Holidays, day)
	}
	return cal, nil
}

func maxExplicitID(defs []TaskDefinition, highest int) int {
	for _, def := range defs {
		if def.ID != nil && *def.ID > highest {
			highest = *def.ID
		}
		highest = maxExplicitID(def.Tasks, highest)
	}
	return highest
}

func (b *builder) resource(rd ResourceDefinition) error {
	name := strings.TrimSpace(rd.Name)
	if name == "" {
		return invalid("resource name is required")
	}
	key := internalstrings.NormalizeKey(name)
	if _, exists := b.resources[key]; exists {
		return invalid("duplicate resource %q", name)
	}
	function := rd.Function
	if rd.Role != "" {
		function = b.roleFunction(rd.Role)
	}
	resource := b.project.AddResource(schedule.Resource{
		ID:           len(b.project.Resources),
		Name:         name,
		Function:     function,
		Contacts:     rd.Email,
		Phone:        rd.Phone,
		StandardRate: rd.Rate,
	})
	b.resources[key] = resource.ID
	return nil
}

func (b *builder) roleFunction(name string) string {
	for _, role := range b.project.Roles {
		if strings.EqualFold(role.Name, name) {
			return strconv.Itoa(role.ID)
		}
	}
	id := 1
	for _, role := range b.project.Roles {
		if role.ID >= id {
			id = role.ID + 1
		}
	}
	b.project.Roles = append(b.project.Roles, schedule.Role{ID: id, Name: name})
	return strconv.Itoa(id)
}

func (b *builder) task(def *TaskDefinition, parent *schedule.Task, milestone bool) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return invalid("task name is required")
	}

	id := b.nextID
	if def.ID != nil {
		id = *def.ID
	} else {
		b.nextID++
	}
	if _, exists := b.byID[id]; exists {
		return invalid("duplicate task id %d", id)
	}

	task := schedule.NewTask(id, name, def.Duration)
	task.Progress = def.Progress
	task.Notes = def.Notes
	task.WebLink = def.Link
	task.Color = def.Color
	if def.Cost != nil {
		cost := *def.Cost
		task.CostManual = &cost
		task.CostCalculated = false
	}
	if len(def.Properties) > 0 {
		task.CustomProperties = make(map[string]string, len(def.Properties))
		for k, v := range def.Properties {
			task.CustomProperties[k] = v
		}
	}
	priority, err := schedule.ParsePriority(def.Priority)
	if err != nil {
		return invalid("task %q: %v", name, err)
	}
	task.Priority = priority

	start, err := optionalDate(fmt.Sprintf("task %q start", name), def.Start)
	if err != nil {
		return err
	}
	date, err := optionalDate(fmt.Sprintf("task %q date", name), def.Date)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = start
	}

	b.byID[id] = task
	if _, exists := b.byName[name]; !exists {
		b.byName[name] = task
	}

	if milestone || def.Milestone {
		task.MarkMilestone(date)
		b.project.AddMilestone(task, parent)
	} else {
		task.Start = start
		b.project.AddTask(task, parent)
	}

	for _, resourceName := range def.Resources {
		resourceID, ok := b.resources[internalstrings.NormalizeKey(resourceName)]
		if !ok {
			return invalid("task %q: unknown resource %q", name, resourceName)
		}
		task.ResourceIDs = append(task.ResourceIDs, resourceID)
		b.project.AddAllocation(schedule.Allocation{
			TaskID:      id,
			ResourceID:  resourceID,
			Function:    b.project.Resources[resourceID].Function,
			Responsible: true,
			Load:        100,
		})
	}
	for _, ref := range def.DependsOn {
		b.deps = append(b.deps, pendingRef{successor: task, ref: ref})
	}

	for i := range def.Tasks {
		if err := b.task(&def.Tasks[i], task, false); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) vacation(vd VacationDefinition) error {
	resourceID, ok := b.resources[internalstrings.NormalizeKey(vd.Resource)]
	if !ok {
		return invalid("vacation: unknown resource %q", vd.Resource)
	}
	start, err := calendar.Parse(vd.Start)
	if err != nil {
		return invalid("vacation start: %v", err)
	}
	end, err := calendar.Parse(vd.End)
	if err != nil {
		return invalid("vacation end: %v", err)
	}
	if end.Before(start) {
		return invalid("vacation for %q ends before it starts", vd.Resource)
	}
	b.project.Vacations = append(b.project.Vacations, schedule.Vacation{ResourceID: resourceID, Start: start, End: end})
	return nil
}

// find resolves a reference by numeric ID first, then by exact name.
func (b *builder) find(ref string) (*schedule.Task, bool) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		if task, ok := b.byID[id]; ok {
			return task, true
		}
	}
	task, ok := b.byName[ref]
	return task, ok
}

func (b *builder) resolveDependencies() error {
	for _, pending := range b.deps {
		predecessor, ok := b.find(pending.ref.Task)
		if !ok {
			return invalid("task %q depends on unknown task %q", pending.successor.Name, pending.ref.Task)
		}
		if predecessor == pending.successor {
			return invalid("task %q depends on itself", pending.successor.Name)
		}
		typ, err := schedule.ParseDependencyType(pending.ref.Type)
		if err != nil {
			return invalid("task %q: %v", pending.successor.Name, err)
		}
		predecessor.AddDependency(pending.successor.ID, typ, pending.ref.Lag)
		if strings.EqualFold(pending.ref.Hardness, string(schedule.HardnessRubber)) {
			predecessor.Dependencies[len(predecessor.Dependencies)-1].Hardness = schedule.HardnessRubber
		}
	}
	return nil
}

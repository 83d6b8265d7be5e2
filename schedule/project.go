package schedule

import (
	"time"

	"github.com/tensorworks-llc/p2gan/calendar"
)

// Defaults for the GanttProject header fields.
const (
	DefaultVersion         = "3.2.3200"
	DefaultLocale          = "en_US"
	DefaultDividerLocation = 300
	DefaultFunction        = "Default:1"
)

// Resource is a named participant that can be allocated to tasks.
type Resource struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	// Function is a role ID or "Default:1".
	Function string `json:"function"`

	// Contacts is an email address.
	Contacts     string  `json:"contacts,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	StandardRate float64 `json:"standard_rate,omitempty"`
}

// Allocation links a resource to a task.
type Allocation struct {
	TaskID      int    `json:"task_id"`
	ResourceID  int    `json:"resource_id"`
	Function    string `json:"function"`
	Responsible bool   `json:"responsible"`

	// Load is a percentage and may exceed 100.
	Load float64 `json:"load"`
}

// Vacation is a window in which a resource is unavailable.
type Vacation struct {
	ResourceID int       `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// Role is a project role definition.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CustomTaskProperty defines a custom task column.
type CustomTaskProperty struct {
	// ID is the property key, e.g. "tpc0".
	ID   string `json:"id"`
	Name string `json:"name"`

	// ValueType is one of "text", "int", "boolean", "date", "double".
	ValueType    string `json:"value_type"`
	DefaultValue string `json:"default_value,omitempty"`

	// SimpleSelect links the property to a built-in one such as "cost".
	SimpleSelect string `json:"simple_select,omitempty"`
}

// Project is the aggregate root of a schedule.
type Project struct {
	Name        string    `json:"name"`
	Start       time.Time `json:"start"`
	Company     string    `json:"company,omitempty"`
	WebLink     string    `json:"web_link,omitempty"`
	Description string    `json:"description,omitempty"`

	// DurationDays is the planned length stated in the source, if any.
	DurationDays int `json:"duration_days,omitempty"`

	// Tasks are the root tasks.
	Tasks []*Task `json:"tasks"`

	// Milestones are milestones that do not belong to any task.
	Milestones []*Task `json:"milestones,omitempty"`

	Resources        []Resource           `json:"resources,omitempty"`
	Allocations      []Allocation         `json:"allocations,omitempty"`
	Vacations        []Vacation           `json:"vacations,omitempty"`
	Roles            []Role               `json:"roles,omitempty"`
	CustomProperties []CustomTaskProperty `json:"custom_properties,omitempty"`

	Calendar calendar.Calendar `json:"-"`

	// ViewDate is the date the chart opens on; Start is used when zero.
	ViewDate        time.Time `json:"view_date,omitzero"`
	Version         string    `json:"version,omitempty"`
	Locale          string    `json:"locale,omitempty"`
	GanttDivider    int       `json:"gantt_divider,omitempty"`
	ResourceDivider int       `json:"resource_divider,omitempty"`
}

// NewProject returns a project with GanttProject defaults filled in.
func NewProject(name string, start time.Time) *Project {
	return &Project{
		Name:            name,
		Start:           calendar.Truncate(start),
		Version:         DefaultVersion,
		Locale:          DefaultLocale,
		GanttDivider:    DefaultDividerLocation,
		ResourceDivider: DefaultDividerLocation,
	}
}

// AddTask adds task under parent, or as a root task when parent is nil.
func (p *Project) AddTask(task, parent *Task) {
	if parent != nil {
		parent.AddChild(task)
		return
	}
	task.ParentID = nil
	task.setLevel(0)
	p.Tasks = append(p.Tasks, task)
}

// AddMilestone adds a milestone under parent, or to the project's own
// milestone list when parent is nil.
func (p *Project) AddMilestone(milestone, parent *Task) {
	milestone.IsMilestone = true
	milestone.Duration = 0
	if parent != nil {
		parent.AddChild(milestone)
		return
	}
	milestone.ParentID = nil
	milestone.setLevel(0)
	p.Milestones = append(p.Milestones, milestone)
}

// AddResource appends a resource and returns it.
func (p *Project) AddResource(resource Resource) Resource {
	if resource.Function == "" {
		resource.Function = DefaultFunction
	}
	p.Resources = append(p.Resources, resource)
	return resource
}

// AddAllocation appends an allocation.
func (p *Project) AddAllocation(allocation Allocation) {
	if allocation.Function == "" {
		allocation.Function = DefaultFunction
	}
	p.Allocations = append(p.Allocations, allocation)
}

// Flatten returns every task in pre-order: root tasks and their descendants
// first, then the project's own milestones. Siblings keep insertion order.
func (p *Project) Flatten() []*Task {
	var all []*Task
	var walk func(tasks []*Task)
	walk = func(tasks []*Task) {
		for _, task := range tasks {
			if task == nil {
				continue
			}
			all = append(all, task)
			walk(task.Children)
		}
	}
	walk(p.Tasks)
	walk(p.Milestones)
	return all
}

// Find returns the first task with the given ID.
func (p *Project) Find(id int) (*Task, bool) {
	for _, task := range p.Flatten() {
		if task.ID == id {
			return task, true
		}
	}
	return nil, false
}

// FindByName returns the first task with exactly the given name.
func (p *Project) FindByName(name string) (*Task, bool) {
	for _, task := range p.Flatten() {
		if task.Name == name {
			return task, true
		}
	}
	return nil, false
}

// FindResourceByName returns the resource with the given name.
func (p *Project) FindResourceByName(name string) (Resource, bool) {
	for _, resource := range p.Resources {
		if resource.Name == name {
			return resource, true
		}
	}
	return Resource{}, false
}

// MilestoneCount counts milestone tasks anywhere in the project.
func (p *Project) MilestoneCount() int {
	count := 0
	for _, task := range p.Flatten() {
		if task.IsMilestone {
			count++
		}
	}
	return count
}

// NextTaskID returns one more than the largest task ID in use.
func (p *Project) NextTaskID() int {
	next := 0
	for _, task := range p.Flatten() {
		if task.ID >= next {
			next = task.ID + 1
		}
	}
	return next
}

// Span returns the earliest start and latest end across resolved tasks.
func (p *Project) Span() (time.Time, time.Time) {
	var start, end time.Time
	for _, task := range p.Flatten() {
		if !task.Start.IsZero() && (start.IsZero() || task.Start.Before(start)) {
			start = task.Start
		}
		if !task.End.IsZero() && task.End.After(end) {
			end = task.End
		}
	}
	return start, end
}

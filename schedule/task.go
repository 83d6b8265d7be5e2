package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tensorworks-llc/p2gan/calendar"
)

// Task is a unit of schedulable work.
type Task struct {
	// ID is unique within a project.
	ID int `json:"id"`

	// UID is an opaque token that identifies the task across files. It is
	// generated once and never changes.
	UID string `json:"uid"`

	Name string `json:"name"`

	// Start is the authored or resolved start date. The zero value means unset.
	Start time.Time `json:"start,omitzero"`

	// End is derived from Start and Duration by Resolve.
	End time.Time `json:"end,omitzero"`

	// Duration is the length in working days. Summary tasks and milestones have 0.
	Duration int `json:"duration"`

	// Progress is percent complete, 0-100.
	Progress int `json:"progress"`

	Priority Priority `json:"priority"`

	IsMilestone bool `json:"milestone,omitempty"`

	// IsSummary is set when the task has children.
	IsSummary bool `json:"summary,omitempty"`

	ParentID *int `json:"parent_id,omitempty"`

	// Level is the depth in the hierarchy; root tasks have level 0.
	Level int `json:"level"`

	Children []*Task `json:"children,omitempty"`

	// Dependencies are the edges for which this task is the predecessor.
	Dependencies []Dependency `json:"dependencies,omitempty"`

	// ResourceIDs are resources directly assigned to the task.
	ResourceIDs []int `json:"resource_ids,omitempty"`

	Notes   string `json:"notes,omitempty"`
	WebLink string `json:"web_link,omitempty"`
	Color   string `json:"color,omitempty"`

	// Shape is a GanttProject texture pattern such as "1,0,0,0,1,0,0,0".
	Shape string `json:"shape,omitempty"`

	// CostManual is a fixed cost; nil lets GanttProject calculate it.
	CostManual     *float64 `json:"cost_manual,omitempty"`
	CostCalculated bool     `json:"cost_calculated,omitempty"`

	// CustomProperties maps custom property IDs (e.g. "tpc0") to values.
	CustomProperties map[string]string `json:"custom_properties,omitempty"`

	ThirdDate           time.Time `json:"third_date,omitzero"`
	ThirdDateConstraint *int      `json:"third_date_constraint,omitempty"`
}

// NewUID returns a fresh opaque task UID.
func NewUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewTask returns a task with a fresh UID.
func NewTask(id int, name string, duration int) *Task {
	return &Task{
		ID:             id,
		UID:            NewUID(),
		Name:           name,
		Duration:       duration,
		CostCalculated: true,
	}
}

// NewMilestone returns a zero-duration task pinned to date.
func NewMilestone(id int, name string, date time.Time) *Task {
	task := NewTask(id, name, 0)
	task.IsMilestone = true
	task.Start = calendar.Truncate(date)
	task.End = task.Start
	return task
}

// MarkMilestone turns t into a milestone on date, discarding its duration.
func (t *Task) MarkMilestone(date time.Time) {
	t.IsMilestone = true
	t.Duration = 0
	if !date.IsZero() {
		t.Start = calendar.Truncate(date)
		t.End = t.Start
	}
}

// AddChild appends child to t, updating the child's parent link and level
// and marking t as a summary task with zero duration.
func (t *Task) AddChild(child *Task) {
	parentID := t.ID
	child.ParentID = &parentID
	child.setLevel(t.Level + 1)
	t.Children = append(t.Children, child)
	t.IsSummary = true
	t.Duration = 0
}

func (t *Task) setLevel(level int) {
	t.Level = level
	for _, child := range t.Children {
		child.setLevel(level + 1)
	}
}

// AddDependency records that successorID depends on t.
func (t *Task) AddDependency(successorID int, typ DependencyType, lag int) {
	t.Dependencies = append(t.Dependencies, Dependency{
		SuccessorID: successorID,
		Type:        typ,
		Lag:         lag,
		Hardness:    HardnessStrong,
	})
}

// HasDependencyOn reports whether t already has an edge to successorID.
func (t *Task) HasDependencyOn(successorID int) bool {
	for _, dep := range t.Dependencies {
		if dep.SuccessorID == successorID {
			return true
		}
	}
	return false
}

// IsLeaf reports whether t has no children.
func (t *Task) IsLeaf() bool {
	return len(t.Children) == 0
}

// Leaves returns the leaf descendants of t in pre-order, or t itself when it
// has no children.
func (t *Task) Leaves() []*Task {
	if t.IsLeaf() {
		return []*Task{t}
	}
	var leaves []*Task
	for _, child := range t.Children {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// EffectiveDuration is the duration used for date arithmetic: zero for
// milestones and summary tasks.
func (t *Task) EffectiveDuration() int {
	if t.IsMilestone || !t.IsLeaf() {
		return 0
	}
	return t.Duration
}

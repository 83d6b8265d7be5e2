package schedule

import "time"

// DanglingDependency is an edge whose successor ID matches no task.
type DanglingDependency struct {
	PredecessorID int `json:"predecessor_id"`
	SuccessorID   int `json:"successor_id"`
}

// Report describes how Resolve arrived at its dates.
type Report struct {
	// Anchor is the date tasks without constraints start on.
	Anchor time.Time `json:"anchor"`

	// Passes holds the number of tasks scheduled in each pass.
	Passes []int `json:"passes"`

	// Forced lists tasks that were placed without their predecessors because
	// the dependency graph contains a cycle.
	Forced []int `json:"forced,omitempty"`

	Dangling     []DanglingDependency `json:"dangling,omitempty"`
	DuplicateIDs []int                `json:"duplicate_ids,omitempty"`
}

// HasCycles reports whether any task had to be forced.
func (r *Report) HasCycles() bool {
	return len(r.Forced) > 0
}

// Scheduled returns the number of tasks scheduled by regular passes.
func (r *Report) Scheduled() int {
	total := 0
	for _, n := range r.Passes {
		total += n
	}
	return total
}

package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrNilProject is returned when Resolve is given a nil project.
	ErrNilProject = errors.New("project is nil")

	// ErrEmptyProject is returned for a project with no tasks and no start date.
	ErrEmptyProject = errors.New("project has no tasks and no start date")

	// ErrMissingStartDate is returned when no anchor date can be determined.
	ErrMissingStartDate = errors.New("project has no start date and no task has an authored start")

	// ErrNegativeDuration is returned when a task has a duration below zero.
	ErrNegativeDuration = errors.New("task duration cannot be negative")

	// ErrInvalidDependencyType is returned for an unknown relationship type.
	ErrInvalidDependencyType = errors.New("invalid dependency type")

	// ErrInvalidPriority is returned for an unknown priority name.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidProgress is returned when progress is outside 0-100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")

	// ErrNilTask is returned when a nil task appears in the tree.
	ErrNilTask = errors.New("nil task in project")
)

// ValidateTask checks the preconditions Resolve relies on for a single task.
func ValidateTask(t *Task) error {
	if t == nil {
		return ErrNilTask
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w: task %d (%q) has duration %d", ErrNegativeDuration, t.ID, t.Name, t.Duration)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("%w: task %d (%q) has progress %d", ErrInvalidProgress, t.ID, t.Name, t.Progress)
	}
	for _, dep := range t.Dependencies {
		if !dep.Type.IsValid() {
			return fmt.Errorf("%w: task %d -> %d has type %d", ErrInvalidDependencyType, t.ID, dep.SuccessorID, int(dep.Type))
		}
	}
	return nil
}

// Validate checks every task in the project. Dangling references and
// duplicate IDs are not errors; Resolve reports them instead.
func (p *Project) Validate() error {
	if p == nil {
		return ErrNilProject
	}
	var check func(tasks []*Task) error
	check = func(tasks []*Task) error {
		for _, task := range tasks {
			if err := ValidateTask(task); err != nil {
				return err
			}
			if err := check(task.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(p.Tasks); err != nil {
		return err
	}
	return check(p.Milestones)
}

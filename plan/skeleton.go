package plan

import (
	"fmt"
	"time"

	"github.com/tensorworks-llc/p2gan/schedule"
)

// skeletonPhases are the generic phases of a project nobody has planned yet,
// with durations in working days.
var skeletonPhases = []struct {
	name     string
	duration int
}{
	{"Analysis", 5},
	{"Planning", 3},
	{"Implementation", 15},
	{"Testing", 7},
	{"Documentation", 5},
	{"Deployment", 2},
}

// Skeleton returns a project with one task per generic phase, each starting
// when the previous one finishes.
func Skeleton(name string, start time.Time) *schedule.Project {
	p := schedule.NewProject(name, start)
	p.Description = fmt.Sprintf("Generic project plan for %s", name)

	var previous *schedule.Task
	for i, phase := range skeletonPhases {
		task := schedule.NewTask(i, phase.name, phase.duration)
		p.AddTask(task, nil)
		if previous != nil {
			previous.AddDependency(task.ID, schedule.FinishToStart, 0)
		}
		previous = task
	}
	return p
}

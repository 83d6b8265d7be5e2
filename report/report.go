// Package report renders resolved schedules for people: a terminal table and
// a printable PDF with Gantt bars.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tensorworks-llc/p2gan/schedule"
)

// row is one task as shown by both renderers.
type row struct {
	task         *schedule.Task
	predecessors string
	resources    string
}

func rows(p *schedule.Project) []row {
	tasks := p.Flatten()

	incoming := make(map[int][]string)
	for _, task := range tasks {
		for _, dep := range task.Dependencies {
			incoming[dep.SuccessorID] = append(incoming[dep.SuccessorID], formatPredecessor(task.ID, dep))
		}
	}

	names := make(map[int]string, len(p.Resources))
	for _, resource := range p.Resources {
		names[resource.ID] = resource.Name
	}

	out := make([]row, 0, len(tasks))
	for _, task := range tasks {
		var assigned []string
		for _, id := range task.ResourceIDs {
			if name, ok := names[id]; ok {
				assigned = append(assigned, name)
			}
		}
		preds := incoming[task.ID]
		sort.Strings(preds)
		out = append(out, row{
			task:         task,
			predecessors: strings.Join(preds, ", "),
			resources:    strings.Join(assigned, ", "),
		})
	}
	return out
}

// formatPredecessor renders an edge the way GanttProject's predecessor
// column does: "3", "3SS" or "3FS+2".
func formatPredecessor(id int, dep schedule.Dependency) string {
	s := strconv.Itoa(id)
	if dep.Type != schedule.FinishToStart || dep.Lag != 0 {
		s += dep.Type.String()
	}
	if dep.Lag != 0 {
		s += fmt.Sprintf("%+d", dep.Lag)
	}
	return s
}

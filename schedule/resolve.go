package schedule

import (
	"fmt"
	"time"

	"github.com/tensorworks-llc/p2gan/calendar"
)

// node is the engine's view of one task.
type node struct {
	task     *Task
	parent   *node
	authored bool

	// incoming are edges whose successor is this task.
	incoming []edge

	scheduled bool
}

type edge struct {
	pred *node
	dep  Dependency
}

// resolver holds the state of a single Resolve call.
type resolver struct {
	cal    calendar.Calendar
	anchor time.Time
	nodes  []*node
	leaves []*node
	byTask map[*Task]*node
	report *Report
}

// Resolve assigns a start and end date to every task in p, in place.
//
// Tasks are scheduled in passes. A leaf task becomes ready once every
// predecessor constraining it, directly or through one of its ancestors, was
// scheduled in an earlier pass. Its start is its authored start when it has
// one, otherwise the latest date implied by those constraints, never earlier
// than the project anchor. Summary tasks span their leaf descendants and are
// scheduled in the pass that completes their last leaf.
//
// When a pass schedules nothing, every remaining leaf is forced onto its
// authored start or the anchor date and listed in Report.Forced.
func Resolve(p *Project) (*Report, error) {
	if p == nil {
		return nil, ErrNilProject
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tasks := p.Flatten()
	anchor := calendar.Truncate(p.Start)
	if len(tasks) == 0 {
		if anchor.IsZero() {
			return nil, ErrEmptyProject
		}
		return &Report{Anchor: anchor}, nil
	}
	if anchor.IsZero() {
		anchor = earliestAuthoredStart(tasks)
		if anchor.IsZero() {
			return nil, ErrMissingStartDate
		}
	}

	r := &resolver{
		cal:    p.Calendar,
		anchor: anchor,
		byTask: make(map[*Task]*node, len(tasks)),
		report: &Report{Anchor: anchor},
	}
	r.build(p)
	if err := r.run(len(tasks)); err != nil {
		return nil, err
	}
	return r.report, nil
}

func earliestAuthoredStart(tasks []*Task) time.Time {
	var earliest time.Time
	for _, task := range tasks {
		if !task.IsLeaf() || task.Start.IsZero() {
			continue
		}
		start := calendar.Truncate(task.Start)
		if earliest.IsZero() || start.Before(earliest) {
			earliest = start
		}
	}
	return earliest
}

// build creates nodes in Flatten order and attaches every resolvable edge to
// its successor.
func (r *resolver) build(p *Project) {
	var walk func(tasks []*Task, parent *node)
	walk = func(tasks []*Task, parent *node) {
		for _, task := range tasks {
			n := &node{
				task:     task,
				parent:   parent,
				authored: task.IsLeaf() && !task.Start.IsZero(),
			}
			r.nodes = append(r.nodes, n)
			r.byTask[task] = n
			if task.IsLeaf() {
				r.leaves = append(r.leaves, n)
			}
			walk(task.Children, n)
		}
	}
	walk(p.Tasks, nil)
	walk(p.Milestones, nil)

	byID := make(map[int]*node, len(r.nodes))
	for _, n := range r.nodes {
		if _, exists := byID[n.task.ID]; exists {
			r.report.DuplicateIDs = append(r.report.DuplicateIDs, n.task.ID)
			continue
		}
		byID[n.task.ID] = n
	}

	for _, n := range r.nodes {
		for _, dep := range n.task.Dependencies {
			successor, ok := byID[dep.SuccessorID]
			if !ok {
				r.report.Dangling = append(r.report.Dangling, DanglingDependency{
					PredecessorID: n.task.ID,
					SuccessorID:   dep.SuccessorID,
				})
				continue
			}
			successor.incoming = append(successor.incoming, edge{pred: n, dep: dep})
		}
	}
}

// constraints returns the edges that bind a leaf: its own and those of every
// ancestor summary.
func (n *node) constraints() []edge {
	edges := append([]edge(nil), n.incoming...)
	for ancestor := n.parent; ancestor != nil; ancestor = ancestor.parent {
		edges = append(edges, ancestor.incoming...)
	}
	return edges
}

func (r *resolver) run(taskCount int) error {
	constraints := make(map[*node][]edge, len(r.leaves))
	for _, leaf := range r.leaves {
		constraints[leaf] = leaf.constraints()
	}

	remaining := len(r.leaves)
	maxPasses := 2 * taskCount
	for pass := 0; remaining > 0 && pass < maxPasses; pass++ {
		// Readiness is judged against the state at the start of the pass so
		// that pass counts do not depend on iteration order.
		var ready []*node
		for _, leaf := range r.leaves {
			if !leaf.scheduled && allScheduled(constraints[leaf]) {
				ready = append(ready, leaf)
			}
		}

		for _, leaf := range ready {
			var start time.Time
			if leaf.authored {
				start = calendar.Truncate(leaf.task.Start)
			} else {
				start = r.candidateStart(leaf, constraints[leaf])
			}
			if err := r.place(leaf, start); err != nil {
				return err
			}
		}
		remaining -= len(ready)

		scheduled := len(ready) + r.deriveSummaries()
		r.report.Passes = append(r.report.Passes, scheduled)
		if scheduled == 0 {
			break
		}
	}

	if remaining == 0 {
		return nil
	}

	for _, leaf := range r.leaves {
		if leaf.scheduled {
			continue
		}
		start := r.anchor
		if leaf.authored {
			start = calendar.Truncate(leaf.task.Start)
		}
		if err := r.place(leaf, start); err != nil {
			return err
		}
		r.report.Forced = append(r.report.Forced, leaf.task.ID)
	}
	r.deriveSummaries()
	return nil
}

func allScheduled(edges []edge) bool {
	for _, e := range edges {
		if !e.pred.scheduled {
			return false
		}
	}
	return true
}

// candidateStart returns the latest start implied by edges, floored at the
// anchor date.
func (r *resolver) candidateStart(leaf *node, edges []edge) time.Time {
	start := r.anchor
	duration := leaf.task.EffectiveDuration()
	for _, e := range edges {
		candidate := r.candidate(e, duration)
		if candidate.After(start) {
			start = candidate
		}
	}
	return start
}

// candidate applies one edge's relationship to a successor of the given
// duration and returns the earliest start it allows.
func (r *resolver) candidate(e edge, duration int) time.Time {
	pred := e.pred.task
	lag := e.dep.Lag
	switch e.dep.Type {
	case StartToStart:
		return r.cal.Shift(pred.Start, lag)
	case FinishToFinish:
		return r.cal.StartForEnd(r.cal.Shift(pred.End, lag), duration)
	case StartToFinish:
		return r.cal.StartForEnd(r.cal.Shift(pred.Start, lag), duration)
	default:
		return r.cal.Shift(pred.End, 1+lag)
	}
}

func (r *resolver) place(n *node, start time.Time) error {
	end, err := r.cal.EndDate(start, n.task.EffectiveDuration())
	if err != nil {
		return fmt.Errorf("schedule task %d: %w", n.task.ID, err)
	}
	n.task.Start = start
	n.task.End = end
	n.scheduled = true
	return nil
}

// deriveSummaries schedules every summary whose leaves are all scheduled and
// returns how many it scheduled.
func (r *resolver) deriveSummaries() int {
	count := 0
	for i := len(r.nodes) - 1; i >= 0; i-- {
		n := r.nodes[i]
		if n.scheduled || n.task.IsLeaf() {
			continue
		}
		leaves := n.task.Leaves()
		var start, end time.Time
		ready := true
		for _, leaf := range leaves {
			if ln, ok := r.byTask[leaf]; !ok || !ln.scheduled {
				ready = false
				break
			}
			if start.IsZero() || leaf.Start.Before(start) {
				start = leaf.Start
			}
			if leaf.End.After(end) {
				end = leaf.End
			}
		}
		if !ready {
			continue
		}
		n.task.Start = start
		n.task.End = end
		n.task.Duration = 0
		n.scheduled = true
		count++
	}
	return count
}

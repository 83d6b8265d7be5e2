// Package schedule models a hierarchical project plan and resolves it into
// concrete dates.
//
// A Project owns a tree of Tasks. Precedence between tasks is recorded as
// Dependency values stored on the predecessor and naming the successor by ID,
// so the ownership graph stays a tree even when the dependency graph has
// cycles. Resolve walks that graph and assigns every task a start and end date.
package schedule

import (
	"fmt"
	"strings"

	"github.com/tensorworks-llc/p2gan/internal/validation"
)

// Priority is a task priority. The zero value is PriorityNormal.
type Priority int

const (
	// PriorityNormal is the default priority. It has no wire code.
	PriorityNormal Priority = iota
	PriorityLow
	PriorityHigh
	PriorityLowest
	PriorityHighest
)

// Code returns the GanttProject priority code and false for PriorityNormal,
// which the file format expresses by omitting the attribute.
func (p Priority) Code() (int, bool) {
	switch p {
	case PriorityLow:
		return 0, true
	case PriorityHigh:
		return 2, true
	case PriorityLowest:
		return 3, true
	case PriorityHighest:
		return 4, true
	default:
		return 0, false
	}
}

// String returns the lowercase priority name.
func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityLowest:
		return "lowest"
	case PriorityHighest:
		return "highest"
	default:
		return "unknown"
	}
}

var priorityNames = map[string]Priority{
	"":         PriorityNormal,
	"normal":   PriorityNormal,
	"medium":   PriorityNormal,
	"low":      PriorityLow,
	"high":     PriorityHigh,
	"lowest":   PriorityLowest,
	"highest":  PriorityHighest,
	"critical": PriorityHighest,
}

// ParsePriority maps a priority name to a Priority. "medium" is an alias for
// normal and "critical" for highest.
func ParsePriority(name string) (Priority, error) {
	p, ok := priorityNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PriorityNormal, fmt.Errorf("%w: %q", ErrInvalidPriority, name)
	}
	return p, nil
}

// DependencyType determines which end of the predecessor constrains which
// end of the successor. Values are the GanttProject wire codes.
type DependencyType int

const (
	StartToStart   DependencyType = 1
	FinishToStart  DependencyType = 2
	FinishToFinish DependencyType = 3
	StartToFinish  DependencyType = 4
)

// IsValid reports whether t is one of the four relationship types.
func (t DependencyType) IsValid() bool {
	return t >= StartToStart && t <= StartToFinish
}

// String returns the short relationship name, e.g. "FS".
func (t DependencyType) String() string {
	switch t {
	case StartToStart:
		return "SS"
	case FinishToStart:
		return "FS"
	case FinishToFinish:
		return "FF"
	case StartToFinish:
		return "SF"
	default:
		return fmt.Sprintf("DependencyType(%d)", int(t))
	}
}

var dependencyTypeNames = map[string]DependencyType{
	"ss": StartToStart, "start-to-start": StartToStart,
	"fs": FinishToStart, "finish-to-start": FinishToStart,
	"ff": FinishToFinish, "finish-to-finish": FinishToFinish,
	"sf": StartToFinish, "start-to-finish": StartToFinish,
}

// ParseDependencyType accepts "FS" style abbreviations or hyphenated names.
// An empty name means FinishToStart.
func ParseDependencyType(name string) (DependencyType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FinishToStart, nil
	}
	t, ok := dependencyTypeNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidDependencyType, name,
			validation.FormatStringers([]DependencyType{StartToStart, FinishToStart, FinishToFinish, StartToFinish}))
	}
	return t, nil
}

// Hardness is the GanttProject dependency hardness.
type Hardness string

const (
	HardnessStrong Hardness = "Strong"
	HardnessRubber Hardness = "Rubber"
)

// Dependency is a precedence edge owned by the predecessor task.
type Dependency struct {
	// SuccessorID is the task that this dependency constrains.
	SuccessorID int `json:"successor_id"`

	Type DependencyType `json:"type"`

	// Lag is added to the constraint in working days. Negative values are leads.
	Lag int `json:"lag"`

	// Hardness defaults to HardnessStrong when empty.
	Hardness Hardness `json:"hardness,omitempty"`
}

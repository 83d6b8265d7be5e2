// Package stakeholder keeps a persistent directory of people who can be
// assigned to projects.
//
// The directory is a JSONL file with one stakeholder per line. It is read
// once by Open and written back in full by Save.
package stakeholder

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrEmptyName is returned when a stakeholder has no name.
	ErrEmptyName = errors.New("stakeholder name is required")

	// ErrNotFound is returned when no stakeholder matches a name.
	ErrNotFound = errors.New("stakeholder not found")

	// ErrInvalidAvailability is returned when availability is outside 0-1.
	ErrInvalidAvailability = errors.New("availability must be between 0 and 1")
)

// DefaultAvailability is the availability of newly created stakeholders.
const DefaultAvailability = 1.0

// Stakeholder is a person who can be allocated to project work.
type Stakeholder struct {
	Name       string   `json:"name"`
	Role       string   `json:"role,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Department string   `json:"department,omitempty"`
	Skills     []string `json:"skills,omitempty"`

	// Availability is the fraction of time available, 0 to 1.
	Availability float64 `json:"availability"`

	StandardRate float64 `json:"standard_rate,omitempty"`
	OvertimeRate float64 `json:"overtime_rate,omitempty"`

	// Projects are the names of projects the stakeholder works on, sorted.
	Projects []string `json:"projects,omitempty"`

	// Aliases are alternative names that Get also matches.
	Aliases []string `json:"aliases,omitempty"`
}

// Validate checks the fields Save relies on.
func (s *Stakeholder) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Availability < 0 || s.Availability > 1 {
		return fmt.Errorf("%w: %s has %g", ErrInvalidAvailability, s.Name, s.Availability)
	}
	return nil
}

// MatchesName reports whether name equals the stakeholder's name or one of
// its aliases, ignoring case.
func (s *Stakeholder) MatchesName(name string) bool {
	name = strings.TrimSpace(name)
	if strings.EqualFold(s.Name, name) {
		return true
	}
	for _, alias := range s.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// HasSkill reports whether the stakeholder lists skill, ignoring case.
func (s *Stakeholder) HasSkill(skill string) bool {
	for _, have := range s.Skills {
		if strings.EqualFold(have, skill) {
			return true
		}
	}
	return false
}

// InProject reports whether the stakeholder is assigned to project.
func (s *Stakeholder) InProject(project string) bool {
	_, found := slices.BinarySearch(s.Projects, project)
	return found
}

// addProject inserts project keeping Projects sorted and unique.
func (s *Stakeholder) addProject(project string) bool {
	i, found := slices.BinarySearch(s.Projects, project)
	if found {
		return false
	}
	s.Projects = slices.Insert(s.Projects, i, project)
	return true
}

func unionFold(have, add []string) []string {
	for _, value := range add {
		if !slices.ContainsFunc(have, func(existing string) bool {
			return strings.EqualFold(existing, value)
		}) {
			have = append(have, value)
		}
	}
	return have
}

package stakeholder

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// minSuggestAvailability excludes nearly unavailable people from SuggestTeam.
const minSuggestAvailability = 0.2

// Directory is an in-memory set of stakeholders backed by an optional file.
type Directory struct {
	path   string
	people []*Stakeholder
}

// New returns an empty directory that is not backed by a file. Save on such
// a directory is a no-op.
func New() *Directory {
	return &Directory{}
}

// Open loads the directory stored at path. A missing file yields an empty
// directory that Save will create.
func Open(path string) (*Directory, error) {
	d := &Directory{path: path}
	err := withFileLock(path, func() error {
		var err error
		d.people, err = readStakeholders(path)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("open stakeholders %s: %w", path, err)
	}
	return d, nil
}

// Path returns the backing file, or "" for an in-memory directory.
func (d *Directory) Path() string {
	return d.path
}

// Len returns the number of stakeholders.
func (d *Directory) Len() int {
	return len(d.people)
}

// Save writes every stakeholder back to the backing file.
func (d *Directory) Save() error {
	if d.path == "" {
		return nil
	}
	return withFileLock(d.path, func() error {
		return writeStakeholders(d.path, d.people)
	})
}

// Get returns the stakeholder whose name or alias matches name. Exact names
// win over aliases.
func (d *Directory) Get(name string) (*Stakeholder, bool) {
	name = strings.TrimSpace(name)
	for _, s := range d.people {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	for _, s := range d.people {
		if s.MatchesName(name) {
			return s, true
		}
	}
	return nil, false
}

// Add inserts s, replacing any stakeholder with the same name.
func (d *Directory) Add(s Stakeholder) (*Stakeholder, error) {
	s.Name = strings.TrimSpace(s.Name)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	slices.Sort(s.Projects)
	s.Projects = slices.Compact(s.Projects)

	stored := &s
	for i, existing := range d.people {
		if strings.EqualFold(existing.Name, s.Name) {
			d.people[i] = stored
			return stored, nil
		}
	}
	d.people = append(d.people, stored)
	return stored, nil
}

// Remove deletes the stakeholder matching name.
func (d *Directory) Remove(name string) error {
	target, ok := d.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	d.people = slices.DeleteFunc(d.people, func(s *Stakeholder) bool {
		return s == target
	})
	return nil
}

// FindOrCreate returns the stakeholder matching name, creating one with the
// given role and full availability when none exists. An existing stakeholder
// without a role takes role.
func (d *Directory) FindOrCreate(name, role string) (*Stakeholder, error) {
	if s, ok := d.Get(name); ok {
		if s.Role == "" {
			s.Role = role
		}
		return s, nil
	}
	return d.Add(Stakeholder{Name: name, Role: role, Availability: DefaultAvailability})
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Project    string
	Role       string
	Department string
}

// List returns matching stakeholders sorted by name.
func (d *Directory) List(filter Filter) []*Stakeholder {
	var result []*Stakeholder
	for _, s := range d.people {
		if filter.Project != "" && !s.InProject(filter.Project) {
			continue
		}
		if filter.Role != "" && !strings.EqualFold(s.Role, filter.Role) {
			continue
		}
		if filter.Department != "" && !strings.EqualFold(s.Department, filter.Department) {
			continue
		}
		result = append(result, s)
	}
	sortByName(result)
	return result
}

// Available returns stakeholders with at least minAvailability, sorted by name.
func (d *Directory) Available(minAvailability float64) []*Stakeholder {
	var result []*Stakeholder
	for _, s := range d.people {
		if s.Availability >= minAvailability {
			result = append(result, s)
		}
	}
	sortByName(result)
	return result
}

// AssignToProject records that the stakeholder matching name works on
// project. It reports whether a stakeholder matched.
func (d *Directory) AssignToProject(name, project string) bool {
	s, ok := d.Get(name)
	if !ok {
		return false
	}
	s.addProject(project)
	return true
}

// SuggestTeam ranks stakeholders by how many of skills they have, weighted by
// availability, and returns at most size of them. Stakeholders with no
// matching skill or availability below 0.2 are never suggested. A size of
// zero or less returns every candidate.
func (d *Directory) SuggestTeam(skills []string, size int) []*Stakeholder {
	type scored struct {
		score float64
		s     *Stakeholder
	}
	var candidates []scored
	for _, s := range d.people {
		if s.Availability < minSuggestAvailability {
			continue
		}
		matches := 0
		for _, skill := range skills {
			if s.HasSkill(skill) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		candidates = append(candidates, scored{score: float64(matches) * s.Availability, s: s})
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	if size > 0 && len(candidates) > size {
		candidates = candidates[:size]
	}
	team := make([]*Stakeholder, 0, len(candidates))
	for _, c := range candidates {
		team = append(team, c.s)
	}
	return team
}

// Merge folds other into d. Stakeholders already present gain the other
// copy's projects, aliases and skills, and fill in contact fields they lack.
func (d *Directory) Merge(other *Directory) {
	for _, incoming := range other.people {
		existing, ok := d.Get(incoming.Name)
		if !ok {
			copied := *incoming
			copied.Projects = slices.Clone(incoming.Projects)
			copied.Aliases = slices.Clone(incoming.Aliases)
			copied.Skills = slices.Clone(incoming.Skills)
			d.people = append(d.people, &copied)
			continue
		}
		for _, project := range incoming.Projects {
			existing.addProject(project)
		}
		existing.Aliases = unionFold(existing.Aliases, incoming.Aliases)
		existing.Skills = unionFold(existing.Skills, incoming.Skills)
		fillEmpty(&existing.Role, incoming.Role)
		fillEmpty(&existing.Email, incoming.Email)
		fillEmpty(&existing.Phone, incoming.Phone)
		fillEmpty(&existing.Department, incoming.Department)
		if existing.StandardRate == 0 {
			existing.StandardRate = incoming.StandardRate
		}
		if existing.OvertimeRate == 0 {
			existing.OvertimeRate = incoming.OvertimeRate
		}
	}
}

func fillEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func sortByName(people []*Stakeholder) {
	slices.SortFunc(people, func(a, b *Stakeholder) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

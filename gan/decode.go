package gan

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/tensorworks-llc/p2gan/calendar"
	"github.com/tensorworks-llc/p2gan/schedule"
)

// ErrMalformed is returned when a .gan document cannot be read.
var ErrMalformed = errors.New("malformed gan document")

var priorityByCode = map[int]schedule.Priority{
	0: schedule.PriorityLow,
	2: schedule.PriorityHigh,
	3: schedule.PriorityLowest,
	4: schedule.PriorityHighest,
}

// Decode reads a .gan document. Task IDs are kept as written. Summary task
// dates are left to Resolve, which derives them from their children.
func Decode(r io.Reader) (*schedule.Project, error) {
	var doc xmlProject
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	start, err := optionalDate("view-date", doc.ViewDate)
	if err != nil {
		return nil, err
	}
	p := schedule.NewProject(doc.Name, start)
	p.Company = doc.Company
	p.WebLink = doc.WebLink
	p.Description = doc.Description.Text
	p.ViewDate = start
	p.Version = orDefaultString(doc.Version, schedule.DefaultVersion)
	p.Locale = orDefaultString(doc.Locale, schedule.DefaultLocale)
	p.GanttDivider = orDefault(doc.GanttDivider, schedule.DefaultDividerLocation)
	p.ResourceDivider = orDefault(doc.ResourceDivider, schedule.DefaultDividerLocation)
	p.Calendar = decodeCalendar(doc.Calendars)

	for _, prop := range doc.Tasks.Properties.Properties {
		if prop.Type != "custom" {
			continue
		}
		custom := schedule.CustomTaskProperty{
			ID:           prop.ID,
			Name:         prop.Name,
			ValueType:    prop.ValueType,
			DefaultValue: prop.DefaultValue,
		}
		if prop.SimpleSelect != nil {
			custom.SimpleSelect = prop.SimpleSelect.Select
		}
		p.CustomProperties = append(p.CustomProperties, custom)
	}

	for _, xt := range doc.Tasks.Tasks {
		task, err := decodeTask(xt)
		if err != nil {
			return nil, err
		}
		if task.IsMilestone && task.IsLeaf() {
			p.AddMilestone(task, nil)
		} else {
			p.AddTask(task, nil)
		}
	}

	for _, xr := range doc.Resources.Resources {
		resource := schedule.Resource{
			ID:       xr.ID,
			Name:     xr.Name,
			Function: xr.Function,
			Contacts: xr.Contacts,
			Phone:    xr.Phone,
		}
		if xr.Rate != nil {
			if resource.StandardRate, err = strconv.ParseFloat(xr.Rate.Value, 64); err != nil {
				return nil, fmt.Errorf("%w: resource %d rate %q", ErrMalformed, xr.ID, xr.Rate.Value)
			}
		}
		p.AddResource(resource)
	}

	for _, xa := range doc.Allocations.Allocations {
		load, err := strconv.ParseFloat(xa.Load, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: allocation load %q", ErrMalformed, xa.Load)
		}
		p.AddAllocation(schedule.Allocation{
			TaskID:      xa.TaskID,
			ResourceID:  xa.ResourceID,
			Function:    xa.Function,
			Responsible: xa.Responsible,
			Load:        load,
		})
		if task, ok := p.Find(xa.TaskID); ok {
			task.ResourceIDs = append(task.ResourceIDs, xa.ResourceID)
		}
	}

	for _, xv := range doc.Vacations.Vacations {
		vStart, err := optionalDate("vacation start", xv.Start)
		if err != nil {
			return nil, err
		}
		vEnd, err := optionalDate("vacation end", xv.End)
		if err != nil {
			return nil, err
		}
		p.Vacations = append(p.Vacations, schedule.Vacation{ResourceID: xv.ResourceID, Start: vStart, End: vEnd})
	}

	for _, roles := range doc.Roles {
		for _, xr := range roles.Roles {
			id, err := strconv.Atoi(xr.ID)
			if err != nil {
				continue
			}
			p.Roles = append(p.Roles, schedule.Role{ID: id, Name: xr.Name})
		}
	}

	return p, nil
}

func decodeTask(xt xmlTask) (*schedule.Task, error) {
	task := schedule.NewTask(xt.ID, xt.Name, xt.Duration)
	if xt.UID != "" {
		task.UID = xt.UID
	}
	task.Color = xt.Color
	task.Shape = xt.Shape
	task.Progress = xt.Complete
	if xt.Priority != nil {
		task.Priority = priorityByCode[*xt.Priority]
	}
	if xt.WebLink != "" {
		if link, err := url.QueryUnescape(xt.WebLink); err == nil {
			task.WebLink = link
		} else {
			task.WebLink = xt.WebLink
		}
	}
	if xt.Notes != nil {
		task.Notes = xt.Notes.Text
	}

	var err error
	if task.ThirdDate, err = optionalDate("thirdDate", xt.ThirdDate); err != nil {
		return nil, err
	}
	if xt.ThirdDateConstraint != nil {
		constraint := *xt.ThirdDateConstraint
		task.ThirdDateConstraint = &constraint
	}
	if xt.CostManual != "" {
		cost, err := strconv.ParseFloat(xt.CostManual, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d cost %q", ErrMalformed, xt.ID, xt.CostManual)
		}
		task.CostManual = &cost
		task.CostCalculated, _ = strconv.ParseBool(xt.CostCalculated)
	}
	for _, prop := range xt.CustomProperties {
		if task.CustomProperties == nil {
			task.CustomProperties = make(map[string]string)
		}
		task.CustomProperties[prop.PropertyID] = prop.Value
	}
	for _, dep := range xt.Depends {
		typ := schedule.DependencyType(dep.Type)
		if !typ.IsValid() {
			return nil, fmt.Errorf("%w: task %d depend type %d", ErrMalformed, xt.ID, dep.Type)
		}
		task.AddDependency(dep.ID, typ, dep.Difference)
		if dep.Hardness != "" {
			task.Dependencies[len(task.Dependencies)-1].Hardness = schedule.Hardness(dep.Hardness)
		}
	}

	start, err := optionalDate(fmt.Sprintf("task %d start", xt.ID), xt.Start)
	if err != nil {
		return nil, err
	}
	if xt.Meeting {
		task.MarkMilestone(start)
	} else {
		task.Start = start
	}

	for _, child := range xt.Tasks {
		childTask, err := decodeTask(child)
		if err != nil {
			return nil, err
		}
		task.AddChild(childTask)
	}
	return task, nil
}

func decodeCalendar(c xmlCalendars) calendar.Calendar {
	w := c.DayTypes.DefaultWeek
	off := map[time.Weekday]int{
		time.Sunday: w.Sun, time.Monday: w.Mon, time.Tuesday: w.Tue, time.Wednesday: w.Wed,
		time.Thursday: w.Thu, time.Friday: w.Fri, time.Saturday: w.Sat,
	}
	var week calendar.WorkWeek
	for day, value := range off {
		week[day] = value == 0
	}
	cal := calendar.Calendar{WorkingDays: week}
	if week == (calendar.WorkWeek{true, true, true, true, true, true, true}) && c.DayTypes.OnlyShowWeekends.Value {
		cal.IncludeWeekends = true
	}
	for _, d := range c.Dates {
		if d.Type == "HOLIDAY" {
			cal.Holidays = append(cal.Holidays, calendar.Date(d.Year, time.Month(d.Month), d.Date))
		}
	}
	return cal
}

func optionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := calendar.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrMalformed, field, err)
	}
	return t, nil
}

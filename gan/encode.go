package gan

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tensorworks-llc/p2gan/calendar"
	"github.com/tensorworks-llc/p2gan/schedule"
)

const (
	zoomingState   = "default:6"
	defaultRoleset = "Default"
)

var viewFields = []xmlField{
	{ID: "tpd3", Name: "Name", Width: 200, Order: 0},
	{ID: "tpd4", Name: "Begin date", Width: 75, Order: 1},
	{ID: "tpd5", Name: "End date", Width: 75, Order: 2},
}

var builtinProperties = []xmlTaskProperty{
	{ID: "tpd0", Name: "type", Type: "default", ValueType: "icon"},
	{ID: "tpd1", Name: "priority", Type: "default", ValueType: "icon"},
	{ID: "tpd2", Name: "info", Type: "default", ValueType: "icon"},
	{ID: "tpd3", Name: "name", Type: "default", ValueType: "text"},
	{ID: "tpd4", Name: "begindate", Type: "default", ValueType: "date"},
	{ID: "tpd5", Name: "enddate", Type: "default", ValueType: "date"},
	{ID: "tpd6", Name: "duration", Type: "default", ValueType: "int"},
	{ID: "tpd7", Name: "completion", Type: "default", ValueType: "int"},
	{ID: "tpd8", Name: "coordinator", Type: "default", ValueType: "text"},
	{ID: "tpd9", Name: "predecessorsr", Type: "default", ValueType: "text"},
}

// Marshal returns the .gan document for p.
func Marshal(p *schedule.Project) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the .gan document for p to w.
//
// Task IDs are renumbered 0..N-1 in Flatten order, because GanttProject
// expects dense IDs. Dependencies and allocations are rewritten to match;
// those naming a task ID that does not exist are dropped. Dates should be
// resolved first; a task without a start is written at the project start.
func Encode(w io.Writer, p *schedule.Project) error {
	if p == nil {
		return schedule.ErrNilProject
	}
	doc := newEncoder(p).document()

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode project %q: %w", p.Name, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode project %q: %w", p.Name, err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type encoder struct {
	project *schedule.Project

	// dense maps each task, by position, to its written ID.
	dense map[*schedule.Task]int

	// byID maps an authored ID to the written ID of its first task.
	byID map[int]int
}

func newEncoder(p *schedule.Project) *encoder {
	tasks := p.Flatten()
	e := &encoder{
		project: p,
		dense:   make(map[*schedule.Task]int, len(tasks)),
		byID:    make(map[int]int, len(tasks)),
	}
	for i, task := range tasks {
		e.dense[task] = i
		if _, exists := e.byID[task.ID]; !exists {
			e.byID[task.ID] = i
		}
	}
	return e
}

func (e *encoder) document() xmlProject {
	p := e.project
	viewDate := p.ViewDate
	if viewDate.IsZero() {
		viewDate = p.Start
	}

	doc := xmlProject{
		Name:            p.Name,
		Company:         p.Company,
		WebLink:         p.WebLink,
		ViewDate:        calendar.Format(viewDate),
		GanttDivider:    orDefault(p.GanttDivider, schedule.DefaultDividerLocation),
		ResourceDivider: orDefault(p.ResourceDivider, schedule.DefaultDividerLocation),
		Version:         orDefaultString(p.Version, schedule.DefaultVersion),
		Locale:          orDefaultString(p.Locale, schedule.DefaultLocale),
		Description:     cdata{Text: p.Description},
		View:            xmlView{ZoomingState: zoomingState, ID: "gantt-chart", Fields: viewFields},
		Calendars:       calendars(p.Calendar),
		Tasks: xmlTasks{
			EmptyMilestones: true,
			Properties:      taskProperties(p.CustomProperties),
		},
		Roles: []xmlRoles{{RolesetName: defaultRoleset}},
	}

	for _, task := range p.Tasks {
		if task != nil {
			doc.Tasks.Tasks = append(doc.Tasks.Tasks, e.task(task))
		}
	}
	for _, milestone := range p.Milestones {
		if milestone != nil {
			doc.Tasks.Tasks = append(doc.Tasks.Tasks, e.task(milestone))
		}
	}

	for _, r := range p.Resources {
		resource := xmlResource{
			ID:       r.ID,
			Name:     r.Name,
			Function: orDefaultString(r.Function, schedule.DefaultFunction),
			Contacts: r.Contacts,
			Phone:    r.Phone,
		}
		if r.StandardRate > 0 {
			resource.Rate = &xmlRate{Name: "standard", Value: formatFloat(r.StandardRate)}
		}
		doc.Resources.Resources = append(doc.Resources.Resources, resource)
	}

	for _, a := range p.Allocations {
		taskID, ok := e.byID[a.TaskID]
		if !ok {
			continue
		}
		doc.Allocations.Allocations = append(doc.Allocations.Allocations, xmlAllocation{
			TaskID:      taskID,
			ResourceID:  a.ResourceID,
			Function:    orDefaultString(a.Function, schedule.DefaultFunction),
			Responsible: a.Responsible,
			Load:        formatFloat(a.Load),
		})
	}

	for _, v := range p.Vacations {
		doc.Vacations.Vacations = append(doc.Vacations.Vacations, xmlVacation{
			Start:      calendar.Format(v.Start),
			End:        calendar.Format(v.End),
			ResourceID: v.ResourceID,
		})
	}

	if len(p.Roles) > 0 {
		custom := xmlRoles{}
		for _, role := range p.Roles {
			custom.Roles = append(custom.Roles, xmlRole{ID: strconv.Itoa(role.ID), Name: role.Name})
		}
		doc.Roles = append(doc.Roles, custom)
	}

	return doc
}

func (e *encoder) task(t *schedule.Task) xmlTask {
	start := t.Start
	if start.IsZero() {
		start = e.project.Start
	}

	x := xmlTask{
		ID:       e.dense[t],
		UID:      t.UID,
		Name:     t.Name,
		Color:    t.Color,
		Shape:    t.Shape,
		Meeting:  t.IsMilestone,
		Start:    calendar.Format(start),
		Duration: t.EffectiveDuration(),
		Complete: t.Progress,
		Expand:   true,
		WebLink:  escapeLink(t.WebLink),
	}
	if code, ok := t.Priority.Code(); ok {
		x.Priority = &code
	}
	if !t.ThirdDate.IsZero() {
		x.ThirdDate = calendar.Format(t.ThirdDate)
	}
	if t.ThirdDateConstraint != nil {
		constraint := *t.ThirdDateConstraint
		x.ThirdDateConstraint = &constraint
	}
	if t.CostManual != nil {
		x.CostManual = formatFloat(*t.CostManual)
		x.CostCalculated = strconv.FormatBool(t.CostCalculated)
	}
	if t.Notes != "" {
		x.Notes = &cdata{Text: t.Notes}
	}

	keys := make([]string, 0, len(t.CustomProperties))
	for key := range t.CustomProperties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		x.CustomProperties = append(x.CustomProperties, xmlCustomProperty{PropertyID: key, Value: t.CustomProperties[key]})
	}

	for _, dep := range t.Dependencies {
		successor, ok := e.byID[dep.SuccessorID]
		if !ok {
			continue
		}
		hardness := dep.Hardness
		if hardness == "" {
			hardness = schedule.HardnessStrong
		}
		x.Depends = append(x.Depends, xmlDepend{
			ID:         successor,
			Type:       int(dep.Type),
			Difference: dep.Lag,
			Hardness:   string(hardness),
		})
	}

	for _, child := range t.Children {
		if child != nil {
			x.Tasks = append(x.Tasks, e.task(child))
		}
	}
	return x
}

func calendars(cal calendar.Calendar) xmlCalendars {
	week := cal.Week()
	off := func(day time.Weekday) int {
		if cal.IncludeWeekends || week.IsWorking(day) {
			return 0
		}
		return 1
	}

	c := xmlCalendars{
		DayTypes: xmlDayTypes{
			DayTypes: []xmlDayType{{ID: 0}, {ID: 1}},
			DefaultWeek: xmlDefaultWeek{
				ID:   1,
				Name: "default",
				Sun:  off(time.Sunday),
				Mon:  off(time.Monday),
				Tue:  off(time.Tuesday),
				Wed:  off(time.Wednesday),
				Thu:  off(time.Thursday),
				Fri:  off(time.Friday),
				Sat:  off(time.Saturday),
			},
			OnlyShowWeekends: xmlValue{Value: cal.IncludeWeekends},
		},
	}
	if cal.IncludeWeekends {
		return c
	}
	for _, holiday := range cal.Holidays {
		c.Dates = append(c.Dates, xmlDate{
			Year:  holiday.Year(),
			Month: int(holiday.Month()),
			Date:  holiday.Day(),
			Type:  "HOLIDAY",
		})
	}
	return c
}

func taskProperties(custom []schedule.CustomTaskProperty) xmlTaskPropList {
	props := make([]xmlTaskProperty, 0, len(builtinProperties)+len(custom))
	props = append(props, builtinProperties...)
	for _, c := range custom {
		prop := xmlTaskProperty{
			ID:           c.ID,
			Name:         c.Name,
			Type:         "custom",
			ValueType:    orDefaultString(c.ValueType, "text"),
			DefaultValue: c.DefaultValue,
		}
		if c.SimpleSelect != "" {
			prop.SimpleSelect = &xmlSimpleSelect{Select: c.SimpleSelect}
		}
		props = append(props, prop)
	}
	return xmlTaskPropList{Properties: props}
}

// escapeLink percent-encodes every reserved character, spaces included.
func escapeLink(link string) string {
	if link == "" {
		return ""
	}
	return strings.ReplaceAll(url.QueryEscape(link), "+", "%20")
}

// formatFloat writes whole numbers with a trailing ".0", as GanttProject does.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func orDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orDefaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

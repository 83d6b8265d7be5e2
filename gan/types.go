// Package gan reads and writes GanttProject (.gan) files.
package gan

import "encoding/xml"

// cdata is element text written as a CDATA section.
type cdata struct {
	Text string `xml:",cdata"`
}

type xmlProject struct {
	XMLName         xml.Name `xml:"project"`
	Name            string   `xml:"name,attr"`
	Company         string   `xml:"company,attr"`
	WebLink         string   `xml:"webLink,attr"`
	ViewDate        string   `xml:"view-date,attr"`
	ViewIndex       int      `xml:"view-index,attr"`
	GanttDivider    int      `xml:"gantt-divider-location,attr"`
	ResourceDivider int      `xml:"resource-divider-location,attr"`
	Version         string   `xml:"version,attr"`
	Locale          string   `xml:"locale,attr"`

	Description cdata          `xml:"description"`
	View        xmlView        `xml:"view"`
	Calendars   xmlCalendars   `xml:"calendars"`
	Tasks       xmlTasks       `xml:"tasks"`
	Resources   xmlResources   `xml:"resources"`
	Allocations xmlAllocations `xml:"allocations"`
	Vacations   xmlVacations   `xml:"vacations"`
	Previous    struct{}       `xml:"previous"`
	Roles       []xmlRoles     `xml:"roles"`
}

type xmlView struct {
	ZoomingState string     `xml:"zooming-state,attr"`
	ID           string     `xml:"id,attr"`
	Fields       []xmlField `xml:"field"`
}

type xmlField struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Width int    `xml:"width,attr"`
	Order int    `xml:"order,attr"`
}

type xmlCalendars struct {
	DayTypes xmlDayTypes `xml:"day-types"`
	Dates    []xmlDate   `xml:"date"`
}

type xmlDayTypes struct {
	DayTypes         []xmlDayType   `xml:"day-type"`
	DefaultWeek      xmlDefaultWeek `xml:"default-week"`
	OnlyShowWeekends xmlValue       `xml:"only-show-weekends"`
	Overridden       struct{}       `xml:"overriden-day-types"`
	Days             struct{}       `xml:"days"`
}

type xmlDayType struct {
	ID int `xml:"id,attr"`
}

// xmlDefaultWeek marks non-working weekdays with 1.
type xmlDefaultWeek struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Sun  int    `xml:"sun,attr"`
	Mon  int    `xml:"mon,attr"`
	Tue  int    `xml:"tue,attr"`
	Wed  int    `xml:"wed,attr"`
	Thu  int    `xml:"thu,attr"`
	Fri  int    `xml:"fri,attr"`
	Sat  int    `xml:"sat,attr"`
}

type xmlValue struct {
	Value bool `xml:"value,attr"`
}

type xmlDate struct {
	Year  int    `xml:"year,attr"`
	Month int    `xml:"month,attr"`
	Date  int    `xml:"date,attr"`
	Type  string `xml:"type,attr"`
}

type xmlTasks struct {
	EmptyMilestones bool            `xml:"empty-milestones,attr"`
	Properties      xmlTaskPropList `xml:"taskproperties"`
	Tasks           []xmlTask       `xml:"task"`
}

type xmlTaskPropList struct {
	Properties []xmlTaskProperty `xml:"taskproperty"`
}

type xmlTaskProperty struct {
	ID           string           `xml:"id,attr"`
	Name         string           `xml:"name,attr"`
	Type         string           `xml:"type,attr"`
	ValueType    string           `xml:"valuetype,attr"`
	DefaultValue string           `xml:"defaultvalue,attr,omitempty"`
	SimpleSelect *xmlSimpleSelect `xml:"simple-select,omitempty"`
}

type xmlSimpleSelect struct {
	Select string `xml:"select,attr"`
}

type xmlTask struct {
	ID                  int    `xml:"id,attr"`
	UID                 string `xml:"uid,attr"`
	Name                string `xml:"name,attr"`
	Color               string `xml:"color,attr,omitempty"`
	Shape               string `xml:"shape,attr,omitempty"`
	Meeting             bool   `xml:"meeting,attr"`
	Start               string `xml:"start,attr"`
	Duration            int    `xml:"duration,attr"`
	Complete            int    `xml:"complete,attr"`
	Priority            *int   `xml:"priority,attr,omitempty"`
	Expand              bool   `xml:"expand,attr"`
	WebLink             string `xml:"webLink,attr,omitempty"`
	ThirdDate           string `xml:"thirdDate,attr,omitempty"`
	ThirdDateConstraint *int   `xml:"thirdDate-constraint,attr,omitempty"`
	CostManual          string `xml:"cost-manual-value,attr,omitempty"`
	CostCalculated      string `xml:"cost-calculated,attr,omitempty"`

	Notes            *cdata              `xml:"notes,omitempty"`
	CustomProperties []xmlCustomProperty `xml:"customproperty"`
	Depends          []xmlDepend         `xml:"depend"`
	Tasks            []xmlTask           `xml:"task"`
}

type xmlCustomProperty struct {
	PropertyID string `xml:"taskproperty-id,attr"`
	Value      string `xml:"value,attr"`
}

type xmlDepend struct {
	ID         int    `xml:"id,attr"`
	Type       int    `xml:"type,attr"`
	Difference int    `xml:"difference,attr"`
	Hardness   string `xml:"hardness,attr"`
}

type xmlResources struct {
	Resources []xmlResource `xml:"resource"`
}

type xmlResource struct {
	ID       int      `xml:"id,attr"`
	Name     string   `xml:"name,attr"`
	Function string   `xml:"function,attr"`
	Contacts string   `xml:"contacts,attr"`
	Phone    string   `xml:"phone,attr"`
	Rate     *xmlRate `xml:"rate,omitempty"`
}

type xmlRate struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlAllocations struct {
	Allocations []xmlAllocation `xml:"allocation"`
}

type xmlAllocation struct {
	TaskID      int    `xml:"task-id,attr"`
	ResourceID  int    `xml:"resource-id,attr"`
	Function    string `xml:"function,attr"`
	Responsible bool   `xml:"responsible,attr"`
	Load        string `xml:"load,attr"`
}

type xmlVacations struct {
	Vacations []xmlVacation `xml:"vacation"`
}

type xmlVacation struct {
	Start      string `xml:"start,attr"`
	End        string `xml:"end,attr"`
	ResourceID int    `xml:"resourceid,attr"`
}

type xmlRoles struct {
	RolesetName string    `xml:"roleset-name,attr,omitempty"`
	Roles       []xmlRole `xml:"role"`
}

type xmlRole struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

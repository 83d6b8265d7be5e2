// Package calendar implements working-day arithmetic for project schedules.
//
// A Calendar decides which civil dates count as working days. The zero
// value is a Monday–Friday week with no holidays, which is what
// GanttProject assumes when a file carries no calendar of its own.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNegativeDuration is returned when a duration below zero is given.
	ErrNegativeDuration = errors.New("duration cannot be negative")

	// ErrInvalidWeekday is returned when a weekday name cannot be parsed.
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// WorkWeek marks which weekdays are working days, indexed by time.Weekday.
type WorkWeek [7]bool

// DefaultWorkWeek is Monday through Friday.
var DefaultWorkWeek = WorkWeek{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
	time.Friday:    true,
}

// IsWorking reports whether the weekday is a working day.
func (w WorkWeek) IsWorking(day time.Weekday) bool {
	return w[day]
}

// IsEmpty reports whether no weekday is marked as working.
func (w WorkWeek) IsEmpty() bool {
	return w == WorkWeek{}
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWorkWeek builds a WorkWeek from weekday names such as "mon" or "Friday".
// An empty list yields DefaultWorkWeek.
func ParseWorkWeek(names []string) (WorkWeek, error) {
	if len(names) == 0 {
		return DefaultWorkWeek, nil
	}
	var week WorkWeek
	for _, name := range names {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return WorkWeek{}, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}
		week[day] = true
	}
	return week, nil
}

// Calendar decides which dates count toward task durations.
type Calendar struct {
	// WorkingDays is the working week. An empty week means DefaultWorkWeek.
	WorkingDays WorkWeek

	// Holidays are non-working dates in addition to the weekly pattern.
	Holidays []time.Time

	// IncludeWeekends counts every calendar day, ignoring the working week
	// and holidays.
	IncludeWeekends bool
}

// Week returns the effective working week.
func (c Calendar) Week() WorkWeek {
	if c.WorkingDays.IsEmpty() {
		return DefaultWorkWeek
	}
	return c.WorkingDays
}

// IsHoliday reports whether day is one of the calendar's holidays.
func (c Calendar) IsHoliday(day time.Time) bool {
	day = Truncate(day)
	for _, holiday := range c.Holidays {
		if Truncate(holiday).Equal(day) {
			return true
		}
	}
	return false
}

// IsWorkingDay reports whether day counts toward a duration.
func (c Calendar) IsWorkingDay(day time.Time) bool {
	if c.IncludeWeekends {
		return true
	}
	if !c.Week().IsWorking(day.Weekday()) {
		return false
	}
	return !c.IsHoliday(day)
}

// EndDate returns the date on which a task starting on start and lasting
// duration working days finishes. The start date itself counts when it is a
// working day. A zero duration returns start unchanged.
func (c Calendar) EndDate(start time.Time, duration int) (time.Time, error) {
	if duration < 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrNegativeDuration, duration)
	}
	day := Truncate(start)
	if duration == 0 {
		return day, nil
	}
	counted := 0
	for {
		if c.IsWorkingDay(day) {
			counted++
			if counted == duration {
				return day, nil
			}
		}
		day = day.AddDate(0, 0, 1)
	}
}

// Shift moves n working days forward (n > 0) or backward (n < 0) from day.
// Shift(day, 0) returns day unchanged even when it is not a working day.
func (c Calendar) Shift(day time.Time, n int) time.Time {
	day = Truncate(day)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		day = day.AddDate(0, 0, step)
		if c.IsWorkingDay(day) {
			n--
		}
	}
	return day
}

// StartForEnd returns the start date that makes a task of the given duration
// finish on end. Durations of zero or one start on end itself.
func (c Calendar) StartForEnd(end time.Time, duration int) time.Time {
	if duration <= 1 {
		return Truncate(end)
	}
	return c.Shift(end, -(duration - 1))
}

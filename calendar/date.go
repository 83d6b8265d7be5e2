package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the civil date layout used in plans and .gan files.
const Layout = "2006-01-02"

// Date returns midnight UTC on the given civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day, keeping the civil date in t's location.
func Truncate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return Date(t.Year(), t.Month(), t.Day())
}

// Parse reads a YYYY-MM-DD date.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// Format writes t as YYYY-MM-DD, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

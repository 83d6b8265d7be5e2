package ui

import (
	"fmt"
	"time"

	"github.com/tensorworks-llc/p2gan/calendar"
)

// FormatDate renders a civil date, or "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return calendar.Format(t)
}

// FormatDays renders a working-day count such as "1 day" or "3 days".
func FormatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FormatPercent renders a progress value such as "40%".
func FormatPercent(value int) string {
	return fmt.Sprintf("%d%%", value)
}

package report

import (
	"strconv"
	"strings"

	"github.com/tensorworks-llc/p2gan/internal/ui"
	"github.com/tensorworks-llc/p2gan/schedule"
)

var tableHeaders = []string{"ID", "TASK", "START", "END", "DAYS", "DONE", "AFTER", "RESOURCES"}

// Table renders the project as an aligned terminal table, one row per task
// in Flatten order with children indented under their summary.
func Table(p *schedule.Project) string {
	if p == nil {
		return ""
	}
	all := rows(p)
	builder := ui.NewTableBuilder(tableHeaders, len(all)).AlignRight(0, 4, 5)
	for _, r := range all {
		task := r.task
		name := ui.TruncateTableCell(ui.Indent(task.Name, task.Level))
		days := ui.FormatDays(task.EffectiveDuration())
		switch {
		case task.IsMilestone:
			name = ui.TruncateTableCell(ui.Indent("◆ "+task.Name, task.Level))
			days = "-"
		case task.IsSummary:
			name = ui.Summary(name)
			days = "-"
		}
		builder.AddRow([]string{
			strconv.Itoa(task.ID),
			name,
			ui.FormatDate(task.Start),
			ui.FormatDate(task.End),
			days,
			ui.FormatPercent(task.Progress),
			ui.TruncateTableCell(r.predecessors),
			ui.TruncateTableCell(r.resources),
		})
	}

	var out strings.Builder
	out.WriteString(ui.Heading(p.Name))
	out.WriteByte('\n')
	if start, end := p.Span(); !start.IsZero() {
		out.WriteString(ui.FormatDate(start) + " to " + ui.FormatDate(end))
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	out.WriteString(builder.String())
	return out.String()
}

package stakeholder

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"Name", "Role", "Email", "Phone", "Department",
	"Skills", "Availability", "Projects",
}

// ExportCSV writes every stakeholder, sorted by name, as CSV with a header row.
func (d *Directory) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range d.List(Filter{}) {
		record := []string{
			s.Name,
			s.Role,
			s.Email,
			s.Phone,
			s.Department,
			strings.Join(s.Skills, ", "),
			formatPercent(s.Availability),
			strings.Join(s.Projects, ", "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row for %s: %w", s.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', -1, 64) + "%"
}

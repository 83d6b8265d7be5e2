// Package ui formats terminal output: aligned tables, styled headings and
// schedule cell values.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AlignRight right-aligns the given columns, counted from zero.
func (builder *TableBuilder) AlignRight(columns ...int) *TableBuilder {
	if builder.right == nil {
		builder.right = make(map[int]bool, len(columns))
	}
	for _, column := range columns {
		builder.right[column] = true
	}
	return builder
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// Len returns the number of rows added so far.
func (builder *TableBuilder) Len() int {
	return len(builder.rows)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return formatTable(builder.headers, builder.rows, builder.right)
}

// FormatTable renders headers and rows as a left-aligned table.
func FormatTable(headers []string, rows [][]string) string {
	return formatTable(headers, rows, nil)
}

func formatTable(headers []string, rows [][]string, right map[int]bool) string {
	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeTableCell(header)
	}

	normalizedRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		normalizedRow := make([]string, len(row))
		for i, cell := range row {
			normalizedRow[i] = normalizeTableCell(cell)
		}
		normalizedRows = append(normalizedRows, normalizedRow)
	}

	widths := make([]int, len(normalizedHeaders))
	for i, header := range normalizedHeaders {
		widths[i] = displayWidth(header)
	}
	for _, row := range normalizedRows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if displayLen := displayWidth(cell); displayLen > widths[i] {
				widths[i] = displayLen
			}
		}
	}

	var builder strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			padding := 0
			if i < len(widths) {
				padding = widths[i] - displayWidth(cell)
			}
			if right[i] {
				builder.WriteString(strings.Repeat(" ", padding))
				padding = 0
			}
			builder.WriteString(cell)
			if i == len(row)-1 {
				builder.WriteString(strings.Repeat(" ", padding))
				builder.WriteByte('\n')
				continue
			}
			builder.WriteString(strings.Repeat(" ", padding+2))
		}
	}

	writeRow(normalizedHeaders)
	for _, row := range normalizedRows {
		writeRow(row)
	}

	return builder.String()
}

// TruncateTableCell limits a cell to tableCellMaxWidth visible columns,
// ending a shortened cell with an ellipsis. ANSI sequences take no width.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if displayWidth(value) <= tableCellMaxWidth {
		return value
	}
	return truncate.StringWithTail(value, tableCellMaxWidth, tableCellEllipsis)
}

func displayWidth(value string) int {
	return lipgloss.Width(value)
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func normalizeTableCell(value string) string {
	return cellReplacer.Replace(value)
}

package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/tensorworks-llc/p2gan/internal/ui"
	"github.com/tensorworks-llc/p2gan/schedule"
)

// ErrUnresolved is returned by WritePDF when no task has dates.
var ErrUnresolved = errors.New("project has no resolved dates")

const (
	pageMargin = 10.0
	rowHeight  = 6.0
	fontFamily = "Helvetica"
	utf8Family = "Custom"
)

// column widths in millimetres: id, task, start, end, days, done.
var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"ID", 10, "R"},
	{"Task", 70, "L"},
	{"Start", 22, "C"},
	{"End", 22, "C"},
	{"Days", 12, "R"},
	{"Done", 12, "R"},
}

// PDFOptions configures WritePDF.
type PDFOptions struct {
	// FontPath is a TTF file used for non-Latin-1 task names. Empty means
	// the built-in Helvetica.
	FontPath string

	// DisableCompression writes uncompressed page streams.
	DisableCompression bool

	// Generated is the creation date stamped in the document; zero means now.
	Generated time.Time
}

// WritePDF writes a landscape A4 schedule to w: a task table on the left and
// Gantt bars scaled to the project span on the right. p should be resolved.
func WritePDF(w io.Writer, p *schedule.Project, opts PDFOptions) error {
	if p == nil {
		return schedule.ErrNilProject
	}
	start, end := p.Span()
	if start.IsZero() || end.IsZero() {
		return ErrUnresolved
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(p.Name, true)
	pdf.SetAuthor(orDefault(p.Company, "p2gan"), true)
	pdf.SetCreator("p2gan", false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCompression(!opts.DisableCompression)
	if !opts.Generated.IsZero() {
		pdf.SetCreationDate(opts.Generated)
	}

	c := &chart{pdf: pdf, family: fontFamily, translate: pdf.UnicodeTranslatorFromDescriptor(""), start: start, end: end}
	if opts.FontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", opts.FontPath)
		pdf.AddUTF8Font(utf8Family, "B", opts.FontPath)
		c.family = utf8Family
		c.translate = func(s string) string { return s }
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont(c.family, "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	c.page(p)
	for _, r := range rows(p) {
		c.task(r.task)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf for %q: %w", p.Name, err)
	}
	return nil
}

type chart struct {
	pdf       *gofpdf.Fpdf
	family    string
	translate func(string) string
	start     time.Time
	end       time.Time

	// chartX and chartWidth locate the bar area on the page.
	chartX     float64
	chartWidth float64
}

func (c *chart) page(p *schedule.Project) {
	pdf := c.pdf
	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFont(c.family, "B", 14)
	pdf.CellFormat(0, 8, c.translate(p.Name), "", 1, "L", false, 0, "")
	pdf.SetFont(c.family, "", 9)
	span := ui.FormatDate(c.start) + " to " + ui.FormatDate(c.end)
	if p.Company != "" {
		span = p.Company + "  " + span
	}
	pdf.CellFormat(0, 5, c.translate(span), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	tableWidth := 0.0
	pdf.SetFont(c.family, "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, col.align, true, 0, "")
		tableWidth += col.width
	}
	c.chartX = pageMargin + tableWidth
	c.chartWidth = pageWidth - pageMargin - c.chartX
	pdf.CellFormat(c.chartWidth, rowHeight, "", "1", 1, "C", true, 0, "")
	c.monthTicks()
}

// monthTicks labels the first day of each month inside the chart header.
func (c *chart) monthTicks() {
	pdf := c.pdf
	y := pdf.GetY() - rowHeight
	pdf.SetFont(c.family, "", 7)
	month := time.Date(c.start.Year(), c.start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !month.After(c.end) {
		if !month.Before(c.start) {
			x := c.x(month)
			pdf.Line(x, y, x, y+rowHeight)
			pdf.SetXY(x, y)
			pdf.CellFormat(14, rowHeight, month.Format("Jan 06"), "", 0, "L", false, 0, "")
		}
		month = month.AddDate(0, 1, 0)
	}
	pdf.SetXY(pageMargin, y+rowHeight)
}

func (c *chart) task(t *schedule.Task) {
	pdf := c.pdf
	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+rowHeight > pageHeight-2*pageMargin {
		c.continuation()
	}

	style := ""
	days := strconv.Itoa(t.EffectiveDuration())
	if t.IsSummary {
		style = "B"
		days = ""
	}
	if t.IsMilestone {
		days = ""
	}
	cells := []string{
		strconv.Itoa(t.ID),
		c.indent(t),
		ui.FormatDate(t.Start),
		ui.FormatDate(t.End),
		days,
		ui.FormatPercent(t.Progress),
	}
	pdf.SetFont(c.family, style, 8)
	for i, col := range pdfColumns {
		pdf.CellFormat(col.width, rowHeight, cells[i], "1", 0, col.align, false, 0, "")
	}
	y := pdf.GetY()
	pdf.CellFormat(c.chartWidth, rowHeight, "", "1", 1, "", false, 0, "")
	c.bar(t, y)
}

func (c *chart) continuation() {
	pdf := c.pdf
	pdf.AddPage()
	pdf.SetFont(c.family, "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.CellFormat(c.chartWidth, rowHeight, "", "1", 1, "C", true, 0, "")
	c.monthTicks()
}

func (c *chart) indent(t *schedule.Task) string {
	name := c.translate(t.Name)
	for i := 0; i < t.Level; i++ {
		name = "   " + name
	}
	width := pdfColumns[1].width - 2
	runes := []rune(name)
	for len(runes) > 0 && c.pdf.GetStringWidth(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func (c *chart) bar(t *schedule.Task, y float64) {
	if t.Start.IsZero() {
		return
	}
	pdf := c.pdf
	x0 := c.x(t.Start)
	if t.IsMilestone {
		mid := y + rowHeight/2
		pdf.SetFillColor(200, 60, 60)
		pdf.Polygon([]gofpdf.PointType{
			{X: x0, Y: mid - 2},
			{X: x0 + 2, Y: mid},
			{X: x0, Y: mid + 2},
			{X: x0 - 2, Y: mid},
		}, "F")
		return
	}

	x1 := c.x(t.End.AddDate(0, 0, 1))
	width := x1 - x0
	if width < 0.5 {
		width = 0.5
	}
	if t.IsSummary {
		pdf.SetFillColor(60, 60, 60)
		pdf.Rect(x0, y+2, width, 2, "F")
		return
	}
	pdf.SetFillColor(140, 182, 206)
	pdf.Rect(x0, y+1.5, width, rowHeight-3, "F")
	if t.Progress > 0 {
		pdf.SetFillColor(60, 110, 150)
		pdf.Rect(x0, y+1.5, width*float64(t.Progress)/100, rowHeight-3, "F")
	}
}

// x maps a date to a horizontal position in the chart area. The span runs
// from the start of the first day to the end of the last.
func (c *chart) x(day time.Time) float64 {
	total := c.end.Sub(c.start).Hours()/24 + 1
	offset := day.Sub(c.start).Hours() / 24
	return c.chartX + c.chartWidth*offset/total
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

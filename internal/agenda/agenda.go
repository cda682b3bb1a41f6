// Package agenda prints a projected month as a terminal table.
package agenda

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"calendar-planner-api/internal/calendar"
	"calendar-planner-api/internal/models"
)

var categoryColors = map[models.TaskCategory]*color.Color{
	models.CategoryToDo:       color.New(color.FgHiBlue),
	models.CategoryInProgress: color.New(color.FgHiYellow),
	models.CategoryReview:     color.New(color.FgHiMagenta),
	models.CategoryCompleted:  color.New(color.FgHiGreen, color.Faint),
}

// Printer renders days with one row per day and one column per level.
type Printer struct {
	// Today anchors the Today/Tomorrow/Yesterday labels.
	Today time.Time
	// Month restricts rows to days of that month; zero keeps every day.
	Month time.Month
}

// Print writes the days that carry at least one task. It returns the number
// of rows written.
func (p *Printer) Print(w io.Writer, days []calendar.DayWithTasks) int {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint, color.Italic)

	width := 0
	for _, d := range days {
		width = max(width, d.MaxLevel()+1)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 28

	header := []any{bold.Sprint("Day")}
	for l := range width {
		header = append(header, bold.Sprintf("L%d", l))
	}
	tbl.AddRow(header...)

	rows := 0
	for _, d := range days {
		if len(d.Tasks) == 0 {
			continue
		}
		if p.Month != 0 && d.Day.Month() != p.Month {
			continue
		}
		row := []any{calendar.FormatSmartDate(d.Day, p.Today)}
		for _, slot := range d.Slots() {
			row = append(row, cell(slot))
		}
		for len(row) < width+1 {
			row = append(row, "")
		}
		tbl.AddRow(row...)
		rows++
	}

	if rows == 0 {
		_, _ = faint.Fprintln(w, " no tasks")
		return 0
	}
	_, _ = fmt.Fprintln(w, tbl)
	return rows
}

func cell(t *calendar.TaskWithMetadata) string {
	if t == nil {
		return ""
	}
	label := t.Name
	switch {
	case t.IsStart && t.IsEnd:
	case t.IsStart:
		label += " >"
	case t.IsEnd:
		label = "< " + label
	default:
		label = "< " + label + " >"
	}
	if c, ok := categoryColors[t.Category]; ok {
		return c.Sprint(label)
	}
	return label
}

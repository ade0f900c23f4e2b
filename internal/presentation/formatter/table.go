package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

const minColumnWidth = 8

type TableFormatter struct {
	headers  []string
	maxWidth int // 0 disables truncation
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers:  []string{"Window", "App", "Package", "Usage"},
		maxWidth: util.TerminalWidth(),
	}
}

func (f *TableFormatter) Format(w io.Writer, _ model.TimeRange, records []model.UsageRecord) error {
	rows := f.buildRows(records)

	var total int64
	for _, r := range records {
		total += r.DurationMinutes
	}
	totalRow := []string{"Total", "", "", util.FormatMinutes(total)}

	widths := f.calculateColumnWidths(append(rows, totalRow))
	f.fitToWidth(rows, widths)

	var b strings.Builder
	f.writeBorder(&b, widths, "top")
	f.writeRow(&b, f.headers, widths)
	f.writeBorder(&b, widths, "middle")

	previous := ""
	for i, row := range rows {
		// Separate buckets visually
		if i > 0 && row[0] != "" && row[0] != previous {
			f.writeBorder(&b, widths, "middle")
		}
		if row[0] != "" {
			previous = row[0]
		}
		f.writeRow(&b, row, widths)
	}

	f.writeBorder(&b, widths, "middle")
	f.writeRow(&b, totalRow, widths)
	f.writeBorder(&b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

// buildRows prints the window once per bucket; records of a bucket are adjacent.
func (f *TableFormatter) buildRows(records []model.UsageRecord) [][]string {
	tp := util.GetTimeProvider()
	rows := make([][]string, 0, len(records))
	var last model.TimeRange
	for i, r := range records {
		window := ""
		if i == 0 || r.Window != last {
			window = tp.FormatWindow(r.Window.Start, r.Window.End)
			last = r.Window
		}
		rows = append(rows, []string{
			window,
			r.AppName,
			r.Package,
			util.FormatMinutes(r.DurationMinutes),
		})
	}
	return rows
}

// calculateColumnWidths determines the display width of each column
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}
	return widths
}

// fitToWidth shrinks the App and Package columns until the table fits maxWidth.
func (f *TableFormatter) fitToWidth(rows [][]string, widths []int) {
	if f.maxWidth <= 0 {
		return
	}

	// Each column adds two padding spaces and one border
	tableWidth := 1
	for _, w := range widths {
		tableWidth += w + 3
	}

	for _, col := range []int{2, 1} {
		excess := tableWidth - f.maxWidth
		if excess <= 0 {
			return
		}
		shrink := excess
		if widths[col]-shrink < minColumnWidth {
			shrink = widths[col] - minColumnWidth
		}
		if shrink <= 0 {
			continue
		}
		widths[col] -= shrink
		tableWidth -= shrink
		for _, row := range rows {
			row[col] = util.TruncateString(row[col], widths[col])
		}
	}
}

// writeBorder writes table borders (top, middle, bottom)
func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// writeRow writes one row; the usage column is right-aligned
func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		leftAlign := i < len(values)-1
		fmt.Fprintf(b, " %s │", util.PadString(value, widths[i], leftAlign))
	}
	b.WriteString("\n")
}

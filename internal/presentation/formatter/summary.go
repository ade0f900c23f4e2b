package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

const summaryBarWidth = 20

// SummaryFormatter prints per-app totals over the whole query range.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format writes the summary report.
func (f *SummaryFormatter) Format(w io.Writer, rng model.TimeRange, records []model.UsageRecord) error {
	var b strings.Builder
	tp := util.GetTimeProvider()

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(util.FormatHeaderTitle("App Usage Summary Report") + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	fmt.Fprintf(&b, "Range: %s to %s\n\n",
		tp.Format(rng.Start, "2006-01-02 15:04"), tp.Format(rng.End, "2006-01-02 15:04"))

	totals := Totals(records)
	if len(totals) == 0 {
		b.WriteString(util.FormatWarning("No usage recorded in this range") + "\n\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	var total int64
	nameWidth := 0
	for _, t := range totals {
		total += t.Minutes
		if width := util.GetDisplayWidth(t.AppName); width > nameWidth {
			nameWidth = width
		}
	}
	if nameWidth > 30 {
		nameWidth = 30
	}

	b.WriteString(util.FormatOverviewTitle("Overview:") + "\n")
	fmt.Fprintf(&b, "  Total Usage: %s\n", util.FormatMinutes(total))
	fmt.Fprintf(&b, "  Apps: %s\n\n", util.FormatNumber(int64(len(totals))))

	b.WriteString(util.FormatDataTitle("App Usage:") + "\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, t := range totals {
		name := util.PadString(util.TruncateString(t.AppName, nameWidth), nameWidth, true)
		percent := 0.0
		if total > 0 {
			percent = float64(t.Minutes) * 100 / float64(total)
		}
		fmt.Fprintf(&b, "  %s  %s  %8s  %6s\n",
			name,
			util.CreateProgressBar(percent, summaryBarWidth),
			util.FormatMinutes(t.Minutes),
			util.FormatPercentage(t.Minutes, total))
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

package formatter

import (
	"fmt"
	"io"
	"sort"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
)

// Formatter renders the records of one query.
type Formatter interface {
	Format(w io.Writer, rng model.TimeRange, records []model.UsageRecord) error
}

// NewFormatter returns the formatter for an output format name.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use table, json, csv or summary)", format)
	}
}

// AppTotal is the focus time of one app summed over all buckets.
type AppTotal struct {
	Package string
	AppName string
	Minutes int64
}

// Totals sums records per package, largest first.
func Totals(records []model.UsageRecord) []AppTotal {
	index := make(map[string]int)
	var totals []AppTotal
	for _, r := range records {
		i, ok := index[r.Package]
		if !ok {
			i = len(totals)
			index[r.Package] = i
			totals = append(totals, AppTotal{Package: r.Package, AppName: r.AppName})
		}
		totals[i].Minutes += r.DurationMinutes
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Minutes != totals[j].Minutes {
			return totals[i].Minutes > totals[j].Minutes
		}
		return totals[i].Package < totals[j].Package
	})
	return totals
}

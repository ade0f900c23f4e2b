package collector

import (
	"context"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/data/scanner"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

// FileSelector picks the log files that may overlap a range.
type FileSelector interface {
	Select(ctx context.Context, rng model.TimeRange) ([]scanner.LogFile, error)
}

// FileParser reads all events of one log file in line order.
type FileParser interface {
	ParseFile(path string) ([]model.FocusChangeEvent, error)
}

// Collector turns the log store into one chronological event stream.
type Collector struct {
	selector FileSelector
	parser   FileParser
}

// NewCollector creates a Collector.
func NewCollector(selector FileSelector, parser FileParser) *Collector {
	return &Collector{
		selector: selector,
		parser:   parser,
	}
}

// Collect returns every event with rng.Includes(event.Time), in chronological
// order. Files are read in start order and reading stops at the first event
// past rng.End. Any read error fails the whole collection.
func (c *Collector) Collect(ctx context.Context, rng model.TimeRange) ([]model.FocusChangeEvent, error) {
	start := time.Now()
	logger := util.LoggerFromContext(ctx)

	files, err := c.selector.Select(ctx, rng)
	if err != nil {
		return nil, err
	}

	var events []model.FocusChangeEvent
	filesRead := 0
scan:
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileEvents, err := c.parser.ParseFile(file.Path)
		if err != nil {
			return nil, err
		}
		filesRead++

		for _, event := range fileEvents {
			if event.Time.After(rng.End) {
				break scan
			}
			if rng.Includes(event.Time) {
				events = append(events, event)
			}
		}
	}

	logger.Debugf("Collected %d events from %d of %d selected files in %v",
		len(events), filesRead, len(files), time.Since(start))
	return events, nil
}

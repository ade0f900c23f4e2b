package analyzer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-usage-timeline/internal/core/constants"
	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/data/aggregator"
	"github.com/penwyp/go-usage-timeline/internal/data/collector"
	"github.com/penwyp/go-usage-timeline/internal/data/names"
	"github.com/penwyp/go-usage-timeline/internal/data/parser"
	"github.com/penwyp/go-usage-timeline/internal/data/scanner"
	"github.com/penwyp/go-usage-timeline/internal/metrics"
	"github.com/penwyp/go-usage-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

type Config struct {
	DataDir      string
	AppsFile     string
	TimeStep     time.Duration
	CacheSize    int
	Ignore       []string
	OutputFormat string
	Timezone     string
}

// Analyzer answers usage queries over one log directory. It holds no per-query
// state and may serve concurrent queries.
type Analyzer struct {
	config     *Config
	scanner    *scanner.LogScanner
	parser     *parser.Parser
	collector  *collector.Collector
	aggregator *aggregator.Aggregator
	names      *names.Table
}

// New builds an Analyzer. The app name table is loaded eagerly and a failure
// to read it is returned, since no query can be answered without it.
func New(cfg *Config) (*Analyzer, error) {
	config := *cfg
	if config.TimeStep == 0 {
		config.TimeStep = constants.DefaultTimeStep
	}

	agg, err := aggregator.NewAggregator(config.TimeStep)
	if err != nil {
		return nil, err
	}

	table, err := names.Load(config.AppsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to init app names lookup table: %w", err)
	}

	s, err := scanner.NewLogScanner(config.DataDir, scanner.WithIgnorePatterns(config.Ignore))
	if err != nil {
		return nil, err
	}

	p, err := parser.NewParser(config.CacheSize)
	if err != nil {
		return nil, err
	}

	util.LogDebugf("Analyzer ready: dir=%s apps=%s (%d names) step=%v cache=%d",
		config.DataDir, config.AppsFile, table.Len(), config.TimeStep, config.CacheSize)

	return &Analyzer{
		config:     &config,
		scanner:    s,
		parser:     p,
		collector:  collector.NewCollector(s, p),
		aggregator: agg,
		names:      table,
	}, nil
}

// Config returns the configuration the Analyzer runs with, defaults applied.
func (a *Analyzer) Config() *Config {
	return a.config
}

// GetEvents returns the per-bucket usage records for rng. Buckets are anchored
// at rng.Start. Either the full result or an error is returned.
func (a *Analyzer) GetEvents(ctx context.Context, rng model.TimeRange) ([]model.UsageRecord, error) {
	if _, ok := util.QueryIDFromContext(ctx); !ok {
		ctx = util.ContextWithQueryID(ctx, uuid.NewString())
	}
	logger := util.LoggerFromContext(ctx)

	startTime := time.Now()
	defer func() {
		metrics.QueryDuration.Observe(time.Since(startTime).Seconds())
	}()

	if rng.Start.After(rng.End) {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidRange, rng)
	}
	if n := rng.Duration() / a.config.TimeStep; n >= constants.MaxBucketsPerQuery {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %s at step %v (limit %d)",
			model.ErrRangeTooWide, rng, a.config.TimeStep, constants.MaxBucketsPerQuery)
	}

	logger.Debugf("Usage query %s started", rng)

	collectStart := time.Now()
	events, err := a.collector.Collect(ctx, rng)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		logger.Errorf("Usage query %s failed: %v", rng, err)
		return nil, fmt.Errorf("usage query %s failed: %w", rng, err)
	}
	collectDuration := time.Since(collectStart)

	aggregateStart := time.Now()
	buckets := a.aggregator.Aggregate(events, rng.Start)
	records := Assemble(buckets, a.names)
	aggregateDuration := time.Since(aggregateStart)

	metrics.QueriesTotal.WithLabelValues("ok").Inc()
	metrics.RecordsReturned.Add(float64(len(records)))
	logger.Debugf("Usage query %s done: %d events, %d buckets, %d records (collect:%v aggregate:%v)",
		rng, len(events), len(buckets), len(records), collectDuration, aggregateDuration)

	return records, nil
}

// GetTimeline returns the records for rng in the shape the timeline host expects.
func (a *Analyzer) GetTimeline(ctx context.Context, rng model.TimeRange) ([]model.TimelineEvent, error) {
	records, err := a.GetEvents(ctx, rng)
	if err != nil {
		return nil, err
	}
	return model.ToEvents(records), nil
}

// Run answers one query and writes it to w in the configured output format.
func (a *Analyzer) Run(ctx context.Context, rng model.TimeRange, w io.Writer) error {
	f, err := formatter.NewFormatter(a.config.OutputFormat)
	if err != nil {
		return err
	}

	records, err := a.GetEvents(ctx, rng)
	if err != nil {
		return err
	}

	outputStart := time.Now()
	err = f.Format(w, rng, records)
	util.LogDebugf("Formatting and output duration: %v", time.Since(outputStart))
	return err
}

// Invalidate drops every cached parse result.
func (a *Analyzer) Invalidate() {
	a.parser.Purge()
}

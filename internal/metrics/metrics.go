package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Query metrics
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_timeline_queries_total",
			Help: "Total number of usage queries served",
		},
		[]string{"result"},
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "usage_timeline_query_duration_seconds",
			Help:    "Usage query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	RecordsReturned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_timeline_records_returned_total",
			Help: "Usage records returned to callers",
		},
	)

	// Log store metrics
	FilesRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_timeline_files_read_total",
			Help: "Usage log files read from disk",
		},
	)

	ParseCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_timeline_parse_cache_hits_total",
			Help: "Usage log files served from the parse cache",
		},
	)

	EventsParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_timeline_events_parsed_total",
			Help: "Focus change events parsed from log lines",
		},
	)

	MalformedLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_timeline_malformed_lines_total",
			Help: "Log lines skipped because they are not focus change events",
		},
	)
)

func init() {
	prometheus.MustRegister(
		QueriesTotal,
		QueryDuration,
		RecordsReturned,
		FilesRead,
		ParseCacheHits,
		EventsParsed,
		MalformedLines,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

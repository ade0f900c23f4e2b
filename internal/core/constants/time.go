package constants

import "time"

const (
	// Default width of one usage bucket
	DefaultTimeStep = time.Hour

	// Representable timestamp bounds (0001-01-01T00:00:00Z .. 9999-12-31T23:59:59Z)
	MinUnixSeconds = int64(-62135596800)
	MaxUnixSeconds = int64(253402300799)

	// Upper bound on the number of buckets one query may produce
	MaxBucketsPerQuery = 100000

	// Default number of parsed log files kept in memory
	DefaultParseCacheSize = 64
)

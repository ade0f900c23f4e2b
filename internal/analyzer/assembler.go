package analyzer

import (
	"sort"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
)

// Resolver maps a package id to the name shown to users.
type Resolver interface {
	DisplayName(id string) string
}

// Assemble flattens buckets into records, one per (bucket, app) with positive
// focus time. Buckets keep their order and apps inside a bucket are sorted by
// package id. Durations are floored to whole minutes.
func Assemble(buckets []model.TimeBucket, resolver Resolver) []model.UsageRecord {
	records := make([]model.UsageRecord, 0)
	for _, bucket := range buckets {
		apps := make([]string, 0, len(bucket.Totals))
		for app, d := range bucket.Totals {
			if d > 0 {
				apps = append(apps, app)
			}
		}
		sort.Strings(apps)

		for _, app := range apps {
			records = append(records, model.UsageRecord{
				Window:          bucket.Window,
				Package:         app,
				AppName:         resolver.DisplayName(app),
				DurationMinutes: int64(bucket.Totals[app] / time.Minute),
			})
		}
	}
	return records
}

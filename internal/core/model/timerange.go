package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid time range")
	// ErrRangeTooWide is returned when a range holds more buckets than a query may produce.
	ErrRangeTooWide = errors.New("time range spans too many buckets")
)

// TimeRange is a closed interval [Start, End].
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange validates start <= end.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.After(end) {
		return TimeRange{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}

// Includes reports whether Start <= t <= End.
func (r TimeRange) Includes(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Contains reports whether Start <= t < End. Bucket windows use this test.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start.Unix(), r.End.Unix())
}

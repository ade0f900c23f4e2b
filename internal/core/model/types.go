package model

import (
	"fmt"
	"time"
)

// ChangeKind tells whether an application gained focus or the device was locked.
type ChangeKind int

const (
	StartUsing ChangeKind = iota
	StopUsing
)

func (k ChangeKind) String() string {
	switch k {
	case StartUsing:
		return "start"
	case StopUsing:
		return "stop"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// FocusChangeEvent is a single parsed usage log line.
type FocusChangeEvent struct {
	Time   time.Time
	Change ChangeKind
	AppID  string // empty for StopUsing
}

// NewStartEvent creates a StartUsing event for the given package id.
func NewStartEvent(t time.Time, appID string) FocusChangeEvent {
	return FocusChangeEvent{Time: t, Change: StartUsing, AppID: appID}
}

// NewStopEvent creates a StopUsing event.
func NewStopEvent(t time.Time) FocusChangeEvent {
	return FocusChangeEvent{Time: t, Change: StopUsing}
}

// TimeBucket holds accumulated focus durations per package id for one window.
type TimeBucket struct {
	Window TimeRange
	Totals map[string]time.Duration
}

// NewTimeBucket creates an empty bucket covering [start, start+step).
// Totals stays nil until the first Add.
func NewTimeBucket(start time.Time, step time.Duration) TimeBucket {
	return TimeBucket{
		Window: TimeRange{Start: start, End: start.Add(step)},
	}
}

// Add sums d into the total of appID.
func (b *TimeBucket) Add(appID string, d time.Duration) {
	if b.Totals == nil {
		b.Totals = make(map[string]time.Duration)
	}
	b.Totals[appID] += d
}

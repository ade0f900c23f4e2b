package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

// ErrInvalidStep is returned for a non-positive bucket width.
var ErrInvalidStep = errors.New("time step must be positive")

// Aggregator folds a chronological event stream into fixed-width buckets.
type Aggregator struct {
	step time.Duration
}

// NewAggregator creates an Aggregator with the given bucket width.
func NewAggregator(step time.Duration) (*Aggregator, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}
	return &Aggregator{step: step}, nil
}

// Step returns the bucket width.
func (a *Aggregator) Step() time.Duration {
	return a.step
}

// Aggregate walks events once and returns buckets [anchor + n*step, anchor + (n+1)*step).
//
// A StartUsing event is charged the time until the next event of any kind, and
// the whole interval goes to the bucket the event falls in, even when it runs
// past the bucket end. A StartUsing event at or past the current window end
// closes that window and opens a fresh one without being charged. The last
// event has no successor, so its open interval is not counted. StopUsing events
// only end the previous interval. Events before anchor are ignored. Empty
// buckets are emitted for steps without activity and the result always holds
// at least one bucket.
func (a *Aggregator) Aggregate(events []model.FocusChangeEvent, anchor time.Time) []model.TimeBucket {
	current := model.NewTimeBucket(anchor, a.step)
	buckets := make([]model.TimeBucket, 0, 1)

	for i, event := range events {
		if event.Change != model.StartUsing || event.Time.Before(anchor) {
			continue
		}

		if !event.Time.Before(current.Window.End) {
			for !event.Time.Before(current.Window.End) {
				buckets = append(buckets, current)
				current = model.NewTimeBucket(current.Window.End, a.step)
			}
			continue
		}

		if i+1 >= len(events) {
			util.LogDebugf("Drop open interval of %s started at %d", event.AppID, event.Time.Unix())
			continue
		}

		used := events[i+1].Time.Sub(event.Time)
		if used < 0 {
			used = 0
		}
		current.Add(event.AppID, used)
	}

	return append(buckets, current)
}

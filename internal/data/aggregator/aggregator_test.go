package aggregator

import (
	"testing"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(secs int64) time.Time {
	return time.Unix(secs, 0).UTC()
}

func open(secs int64, app string) model.FocusChangeEvent {
	return model.NewStartEvent(at(secs), app)
}

func lock(secs int64) model.FocusChangeEvent {
	return model.NewStopEvent(at(secs))
}

func newHourly(t *testing.T) *Aggregator {
	t.Helper()
	a, err := NewAggregator(time.Hour)
	require.NoError(t, err)
	return a
}

func TestNewAggregatorRejectsNonPositiveStep(t *testing.T) {
	for _, step := range []time.Duration{0, -time.Minute} {
		a, err := NewAggregator(step)
		assert.ErrorIs(t, err, ErrInvalidStep)
		assert.Nil(t, a)
	}

	a, err := NewAggregator(15 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, a.Step())
}

func TestAggregateSingleHour(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(1700000000, "app.browser"),
		open(1700000900, "app.editor"),
		lock(1700003600),
	}

	buckets := a.Aggregate(events, at(1700000000))
	require.Len(t, buckets, 1)
	assert.Equal(t, model.TimeRange{Start: at(1700000000), End: at(1700003600)}, buckets[0].Window)
	assert.Equal(t, map[string]time.Duration{
		"app.browser": 15 * time.Minute,
		"app.editor":  45 * time.Minute,
	}, buckets[0].Totals)
}

func TestAggregateDropsTrailingStart(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(1700000000, "app.browser"),
		open(1700000600, "app.editor"),
	}

	buckets := a.Aggregate(events, at(1700000000))
	require.Len(t, buckets, 1)
	assert.Equal(t, map[string]time.Duration{"app.browser": 10 * time.Minute}, buckets[0].Totals)
}

func TestAggregateSumsRepeatedApps(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(0, "a"),
		open(60, "b"),
		open(120, "a"),
		lock(300),
		open(600, "a"),
		lock(660),
	}

	buckets := a.Aggregate(events, at(0))
	require.Len(t, buckets, 1)
	assert.Equal(t, map[string]time.Duration{
		"a": 60*time.Second + 180*time.Second + 60*time.Second,
		"b": 60 * time.Second,
	}, buckets[0].Totals)
}

func TestAggregateZeroDuration(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(100, "a"),
		open(100, "b"),
		lock(160),
	}

	buckets := a.Aggregate(events, at(0))
	require.Len(t, buckets, 1)
	assert.Equal(t, map[string]time.Duration{
		"a": 0,
		"b": time.Minute,
	}, buckets[0].Totals)
}

func TestAggregateDoesNotSplitIntervals(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(3000, "a"),
		open(7200, "b"),
		lock(7260),
	}

	buckets := a.Aggregate(events, at(0))
	require.Len(t, buckets, 3)
	assert.Equal(t, map[string]time.Duration{"a": 4200 * time.Second}, buckets[0].Totals)
	assert.Empty(t, buckets[1].Totals)
	assert.Empty(t, buckets[2].Totals)
}

func TestAggregateAdvanceSkipsTriggeringEvent(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(0, "a"),
		lock(60),
		open(3600, "b"),
		lock(3900),
	}

	buckets := a.Aggregate(events, at(0))
	require.Len(t, buckets, 2)
	assert.Equal(t, map[string]time.Duration{"a": time.Minute}, buckets[0].Totals)
	assert.Empty(t, buckets[1].Totals)
	assert.Equal(t, at(3600), buckets[1].Window.Start)
}

func TestAggregateCountsEventsAfterAdvance(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(0, "a"),
		lock(60),
		open(3600, "b"),
		open(3900, "c"),
		lock(4200),
	}

	buckets := a.Aggregate(events, at(0))
	require.Len(t, buckets, 2)
	assert.Equal(t, map[string]time.Duration{"c": 5 * time.Minute}, buckets[1].Totals)
}

func TestAggregateEmitsEmptyBucketsForGaps(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(0, "a"),
		lock(60),
		open(4*3600+10, "b"),
		lock(4*3600+70),
	}

	buckets := a.Aggregate(events, at(0))
	require.Len(t, buckets, 5)
	for i := 1; i < 5; i++ {
		assert.Empty(t, buckets[i].Totals)
	}
	assert.Equal(t, at(4*3600), buckets[4].Window.Start)
}

func TestAggregateWindowsAlignToAnchor(t *testing.T) {
	step := 15 * time.Minute
	a, err := NewAggregator(step)
	require.NoError(t, err)

	anchor := at(1700000123)
	var events []model.FocusChangeEvent
	for i := int64(0); i < 20; i++ {
		events = append(events, open(1700000123+i*700, "a"))
	}

	buckets := a.Aggregate(events, anchor)
	require.NotEmpty(t, buckets)
	for n, b := range buckets {
		assert.Equal(t, anchor.Add(time.Duration(n)*step), b.Window.Start)
		assert.Equal(t, step, b.Window.Duration())
		if n > 0 {
			assert.Equal(t, buckets[n-1].Window.End, b.Window.Start)
		}
	}
}

func TestAggregateIgnoresEventsBeforeAnchor(t *testing.T) {
	a := newHourly(t)
	events := []model.FocusChangeEvent{
		open(50, "early"),
		open(100, "a"),
		lock(160),
	}

	buckets := a.Aggregate(events, at(100))
	require.Len(t, buckets, 1)
	assert.Equal(t, map[string]time.Duration{"a": time.Minute}, buckets[0].Totals)
}

func TestAggregateEmptyInput(t *testing.T) {
	a := newHourly(t)

	buckets := a.Aggregate(nil, at(500))
	require.Len(t, buckets, 1)
	assert.Equal(t, at(500), buckets[0].Window.Start)
	assert.Empty(t, buckets[0].Totals)
}

func TestAggregateOnlyStops(t *testing.T) {
	a := newHourly(t)

	buckets := a.Aggregate([]model.FocusChangeEvent{lock(10), lock(7200)}, at(0))
	require.Len(t, buckets, 1)
	assert.Empty(t, buckets[0].Totals)
}

package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/data/parser"
	"github.com/penwyp/go-usage-timeline/internal/data/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(secs int64) time.Time {
	return time.Unix(secs, 0).UTC()
}

func rangeOf(start, end int64) model.TimeRange {
	return model.TimeRange{Start: at(start), End: at(end)}
}

// recordingParser wraps a real parser and remembers which files were opened.
type recordingParser struct {
	inner  *parser.Parser
	opened []string
}

func (r *recordingParser) ParseFile(path string) ([]model.FocusChangeEvent, error) {
	r.opened = append(r.opened, filepath.Base(path))
	return r.inner.ParseFile(path)
}

func newCollector(t *testing.T, files map[string][]string) (*Collector, *recordingParser) {
	t.Helper()
	dir := t.TempDir()
	for name, lines := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\n")+"\n"), 0644))
	}

	s, err := scanner.NewLogScanner(dir)
	require.NoError(t, err)
	p, err := parser.NewParser(0)
	require.NoError(t, err)

	rec := &recordingParser{inner: p}
	return NewCollector(s, rec), rec
}

func times(events []model.FocusChangeEvent) []int64 {
	out := make([]int64, 0, len(events))
	for _, e := range events {
		out = append(out, e.Time.Unix())
	}
	return out
}

func TestCollectSingleFile(t *testing.T) {
	c, _ := newCollector(t, map[string][]string{
		"1700000000": {
			"1700000000:open:app.browser",
			"1700000900:open:app.editor",
			"1700003600:lock:",
		},
	})

	events, err := c.Collect(context.Background(), rangeOf(1700000000, 1700003600))
	require.NoError(t, err)
	assert.Equal(t, []model.FocusChangeEvent{
		model.NewStartEvent(at(1700000000), "app.browser"),
		model.NewStartEvent(at(1700000900), "app.editor"),
		model.NewStopEvent(at(1700003600)),
	}, events)
}

func TestCollectAcrossFilesClipsToRange(t *testing.T) {
	c, rec := newCollector(t, map[string][]string{
		"100": {"100:open:a", "150:open:b", "190:lock:"},
		"200": {"200:open:c", "250:open:d", "290:lock:"},
		"300": {"300:open:e", "350:open:f"},
		"400": {"400:open:g"},
	})

	events, err := c.Collect(context.Background(), rangeOf(160, 320))
	require.NoError(t, err)
	assert.Equal(t, []int64{190, 200, 250, 290, 300}, times(events))
	assert.Equal(t, []string{"100", "200", "300"}, rec.opened)
}

func TestCollectBoundsAreInclusive(t *testing.T) {
	c, _ := newCollector(t, map[string][]string{
		"100": {"100:open:a", "150:open:b", "200:lock:", "201:open:c"},
	})

	events, err := c.Collect(context.Background(), rangeOf(100, 200))
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 150, 200}, times(events))
}

func TestCollectStopsAfterRangeEnd(t *testing.T) {
	c, rec := newCollector(t, map[string][]string{
		"100": {"100:open:a", "500:open:b"},
		"600": {"600:open:c"},
	})

	events, err := c.Collect(context.Background(), rangeOf(100, 200))
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, times(events))
	assert.Equal(t, []string{"100"}, rec.opened)
}

func TestCollectSkipsSupersededFiles(t *testing.T) {
	c, rec := newCollector(t, map[string][]string{
		"100": {"100:open:a"},
		"200": {"200:open:b"},
		"300": {"300:open:c", "320:lock:"},
		"500": {"500:open:d"},
	})

	events, err := c.Collect(context.Background(), rangeOf(310, 400))
	require.NoError(t, err)
	assert.Equal(t, []int64{320}, times(events))
	assert.Equal(t, []string{"300"}, rec.opened)
}

func TestCollectIsIdempotent(t *testing.T) {
	c, _ := newCollector(t, map[string][]string{
		"100": {"100:open:a", "150:open:b"},
		"200": {"200:lock:"},
	})

	first, err := c.Collect(context.Background(), rangeOf(0, 1000))
	require.NoError(t, err)
	second, err := c.Collect(context.Background(), rangeOf(0, 1000))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollectFailsOnCorruptFile(t *testing.T) {
	c, _ := newCollector(t, map[string][]string{
		"100": {"100:open:a"},
		"200": {"200:open:b", "99999999999999:lock:"},
	})

	events, err := c.Collect(context.Background(), rangeOf(0, 1000))
	assert.Error(t, err)
	assert.Nil(t, events)
}

type failingSelector struct{ err error }

func (f failingSelector) Select(context.Context, model.TimeRange) ([]scanner.LogFile, error) {
	return nil, f.err
}

func TestCollectPropagatesSelectorError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCollector(failingSelector{err: boom}, nil)

	_, err := c.Collect(context.Background(), rangeOf(0, 10))
	assert.ErrorIs(t, err, boom)
}

type staticSelector []scanner.LogFile

func (s staticSelector) Select(context.Context, model.TimeRange) ([]scanner.LogFile, error) {
	return s, nil
}

func TestCollectHonoursCancellation(t *testing.T) {
	c := NewCollector(staticSelector{{Path: "/nonexistent/100", Name: "100", Start: at(100)}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collect(ctx, rangeOf(0, 1000))
	assert.ErrorIs(t, err, context.Canceled)
}

package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/data/timestamp"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

// ErrUndecodableName is returned when a log file name is not an epoch timestamp.
var ErrUndecodableName = errors.New("undecodable log file name")

// LogFile is one rotation of the usage log. Start is decoded from the file name
// and is the earliest time any event in the file may carry.
type LogFile struct {
	Path  string
	Name  string
	Start time.Time
}

// LogScanner selects the log files that may hold events for a query range.
type LogScanner struct {
	baseDir string
	ignore  []string
}

// Option configures a LogScanner.
type Option func(*LogScanner)

// WithIgnorePatterns skips entries whose name matches any doublestar pattern.
func WithIgnorePatterns(patterns []string) Option {
	return func(s *LogScanner) {
		s.ignore = append(s.ignore, patterns...)
	}
}

// NewLogScanner creates a LogScanner over baseDir.
func NewLogScanner(baseDir string, opts ...Option) (*LogScanner, error) {
	s := &LogScanner{baseDir: baseDir}
	for _, opt := range opts {
		opt(s)
	}
	for _, pattern := range s.ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return s, nil
}

// BaseDir returns the scanned directory.
func (s *LogScanner) BaseDir() string {
	return s.baseDir
}

// List returns every log file in the directory sorted by start time.
func (s *LogScanner) List() ([]LogFile, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("unable to read usage files in %s: %w", s.baseDir, err)
	}

	files := make([]LogFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			util.LogDebugf("Skip directory in usage log dir: %s", name)
			continue
		}
		if s.ignored(name) {
			util.LogDebugf("Skip ignored entry: %s", name)
			continue
		}
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: %q is not valid UTF-8", ErrUndecodableName, name)
		}
		start, err := timestamp.Decode(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUndecodableName, name, err)
		}
		files = append(files, LogFile{
			Path:  filepath.Join(s.baseDir, name),
			Name:  name,
			Start: start,
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Start.Equal(files[j].Start) {
			return files[i].Name < files[j].Name
		}
		return files[i].Start.Before(files[j].Start)
	})
	return files, nil
}

// Select returns, in chronological order, the minimal set of files whose
// content can overlap rng: the file starting before rng.Start whose successor
// starts after it, plus every file starting inside rng. File contents are never opened here.
func (s *LogScanner) Select(ctx context.Context, rng model.TimeRange) ([]LogFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	files, err := s.List()
	if err != nil {
		return nil, err
	}

	selected := make([]LogFile, 0, len(files))
	for i, file := range files {
		if file.Start.Before(rng.Start) {
			// A file covers [its start, next file's start). Without a successor
			// its extent is unknown and it is not read.
			if i+1 < len(files) && files[i+1].Start.After(rng.Start) {
				selected = append(selected, file)
			}
		} else if !file.Start.After(rng.End) {
			selected = append(selected, file)
		} else {
			break
		}
	}

	util.LogDebugf("Log scan of %s finished in %v: %d files, %d selected for %s",
		s.baseDir, time.Since(start), len(files), len(selected), rng)
	return selected, nil
}

func (s *LogScanner) ignored(name string) bool {
	for _, pattern := range s.ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

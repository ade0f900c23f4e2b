package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/data/timestamp"
	"github.com/penwyp/go-usage-timeline/internal/metrics"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

// ParseLine converts one "timestamp:action[:argument]" line into an event.
// It returns nil, nil for lines that are not focus changes. The only error is
// an integer timestamp that cannot be represented, which means corrupt data.
func ParseLine(line string) (*model.FocusChangeEvent, error) {
	fields := strings.SplitN(line, model.LineSeparator, 3)
	if len(fields) < 2 {
		return nil, nil
	}

	t, err := timestamp.Decode(fields[0])
	if err != nil {
		if timestamp.IsOutOfRange(err) {
			return nil, err
		}
		return nil, nil
	}

	switch fields[1] {
	case model.ActionOpen:
		if len(fields) < 3 {
			return nil, nil
		}
		// The id ends at the next separator, anything after it is ignored.
		appID, _, _ := strings.Cut(fields[2], model.LineSeparator)
		if appID == "" {
			return nil, nil
		}
		event := model.NewStartEvent(t, appID)
		return &event, nil
	case model.ActionLock:
		event := model.NewStopEvent(t)
		return &event, nil
	default:
		return nil, nil
	}
}

// Lines longer than this are skipped as malformed.
const maxLineLength = 1024 * 1024

type cacheEntry struct {
	info   *util.FileInfo
	events []model.FocusChangeEvent
}

// Parser reads usage log files. Parsed files are kept in a bounded LRU and
// reused while the file's inode, size and modification time are unchanged.
type Parser struct {
	cache *lru.Cache[string, cacheEntry]
}

// NewParser creates a Parser caching up to cacheSize files. Zero disables caching.
func NewParser(cacheSize int) (*Parser, error) {
	p := &Parser{}
	if cacheSize > 0 {
		cache, err := lru.New[string, cacheEntry](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create parse cache: %w", err)
		}
		p.cache = cache
	}
	return p, nil
}

// ParseFile reads the whole file at path and returns its events in line order.
// The returned slice is shared with the cache and must not be modified.
func (p *Parser) ParseFile(path string) ([]model.FocusChangeEvent, error) {
	var info *util.FileInfo
	if p.cache != nil {
		var err error
		info, err = util.GetFileInfo(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read usage file %s: %w", path, err)
		}
		if cached, ok := p.cache.Get(path); ok && cached.info.SameFile(info) {
			metrics.ParseCacheHits.Inc()
			return cached.events, nil
		}
	}

	events, err := p.readFile(path)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Add(path, cacheEntry{info: info, events: events})
	}
	return events, nil
}

// Purge drops every cached file.
func (p *Parser) Purge() {
	if p.cache != nil {
		p.cache.Purge()
	}
}

func (p *Parser) readFile(path string) ([]model.FocusChangeEvent, error) {
	util.LogDebugf("Start parsing usage file: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read usage file %s: %w", path, err)
	}
	defer file.Close()
	metrics.FilesRead.Inc()

	var events []model.FocusChangeEvent
	reader := bufio.NewReaderSize(file, 64*1024)

	lineCount := 0
	malformed := 0
	for {
		line, tooLong, err := readLine(reader, maxLineLength)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read usage file %s: %w", path, err)
		}
		lineCount++
		if tooLong {
			malformed++
			util.LogDebugf("Skip oversized line %s:%d", path, lineCount)
			continue
		}
		if line == "" {
			continue
		}

		event, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("corrupt usage file %s:%d: %w", path, lineCount, err)
		}
		if event == nil {
			malformed++
			util.LogDebugf("Skip malformed line %s:%d", path, lineCount)
			continue
		}
		events = append(events, *event)
	}

	metrics.EventsParsed.Add(float64(len(events)))
	metrics.MalformedLines.Add(float64(malformed))
	util.LogDebugf("Parsed usage file %s: %d lines, %d events, %d malformed", path, lineCount, len(events), malformed)
	return events, nil
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed up to its newline and reported as tooLong.
func readLine(r *bufio.Reader, limit int) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > limit {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return strings.TrimSuffix(string(buf), "\r"), tooLong, nil
		}
	}
}

package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

// FileEvent is a change to one entry of the log directory.
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher reports writes, creations, removals and renames in the usage
// log directory. Subdirectories are not watched.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	ignore  []string
	events  chan FileEvent
}

func NewFileWatcher(dir string, ignore []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		dir:     dir,
		ignore:  ignore,
		events:  make(chan FileEvent, 100),
	}

	// Start event processing
	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Permission changes never alter log content
			if event.Op == fsnotify.Chmod {
				continue
			}
			if fw.ignored(filepath.Base(event.Name)) {
				continue
			}

			fw.events <- FileEvent{
				Path:      event.Name,
				Operation: event.Op.String(),
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (fw *FileWatcher) ignored(name string) bool {
	for _, pattern := range fw.ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Events is closed after Close.
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

// Debounce groups events that arrive less than wait apart and emits each group
// once the directory has been quiet for wait. The returned channel is closed
// when in is closed or ctx is done.
func Debounce(ctx context.Context, in <-chan FileEvent, wait time.Duration) <-chan []FileEvent {
	out := make(chan []FileEvent, 1)

	go func() {
		defer close(out)

		var pending []FileEvent
		timer := time.NewTimer(wait)
		if !timer.Stop() {
			<-timer.C
		}

		flush := func() bool {
			if len(pending) == 0 {
				return true
			}
			select {
			case out <- pending:
				pending = nil
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-in:
				if !ok {
					flush()
					return
				}
				pending = append(pending, event)
				timer.Reset(wait)
			case <-timer.C:
				if !flush() {
					return
				}
			}
		}
	}()

	return out
}

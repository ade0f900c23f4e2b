package names

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

// Table maps package ids to display names. It is immutable after Load and
// safe to share between goroutines.
type Table struct {
	names map[string]string
}

// Load reads a "package_id:display_name" file. Lines without a separator are
// skipped and a later duplicate id replaces an earlier one.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading apps file: %w", err)
	}
	defer file.Close()

	names := make(map[string]string)
	scanner := bufio.NewScanner(file)
	skipped := 0
	for scanner.Scan() {
		id, name, ok := strings.Cut(scanner.Text(), model.LineSeparator)
		if !ok {
			skipped++
			continue
		}
		names[id] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading apps file: %w", err)
	}

	util.LogDebugf("Loaded %d app names from %s (%d lines skipped)", len(names), path, skipped)
	return &Table{names: names}, nil
}

// NewTable builds a table from an existing map. The map is copied.
func NewTable(entries map[string]string) *Table {
	names := make(map[string]string, len(entries))
	for k, v := range entries {
		names[k] = v
	}
	return &Table{names: names}
}

// Resolve looks up the display name of id.
func (t *Table) Resolve(id string) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// DisplayName returns the display name of id, or id itself when unknown.
func (t *Table) DisplayName(id string) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return id
}

// Len returns the number of known ids.
func (t *Table) Len() int {
	return len(t.names)
}

package names

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeApps(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apps")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeApps(t, "app.browser:Browser\n"+
		"app.editor:Text Editor\n"+
		"no separator here\n"+
		"\n"+
		"app.clock:Clock: World Time\n"+
		"app.browser:Web Browser\r\n")

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	tests := []struct {
		id       string
		expected string
		found    bool
	}{
		{"app.browser", "Web Browser", true},
		{"app.editor", "Text Editor", true},
		{"app.clock", "Clock: World Time", true},
		{"app.unknown", "", false},
		{"no separator here", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			name, ok := table.Resolve(tt.id)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestDisplayNameFallsBackToID(t *testing.T) {
	table := NewTable(map[string]string{"app.editor": "Editor"})

	assert.Equal(t, "Editor", table.DisplayName("app.editor"))
	assert.Equal(t, "app.unknown", table.DisplayName("app.unknown"))
}

func TestNewTableCopiesEntries(t *testing.T) {
	entries := map[string]string{"a": "A"}
	table := NewTable(entries)
	entries["a"] = "changed"

	assert.Equal(t, "A", table.DisplayName("a"))
}

func TestLoadEmptyFile(t *testing.T) {
	table, err := Load(writeApps(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoadMissingFile(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	// Verify directory was created
	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	err = ensureDir(testDir)
	assert.NoError(t, err)
}

func setRangeFlags(t *testing.T, from, to, lookback string) {
	t.Helper()
	oldFrom, oldTo, oldDuration := fromArg, toArg, duration
	fromArg, toArg, duration = from, to, lookback
	t.Cleanup(func() {
		fromArg, toArg, duration = oldFrom, oldTo, oldDuration
	})
}

func TestQueryRange(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	now := time.Unix(1700007200, 500).UTC()

	tests := []struct {
		name      string
		from      string
		to        string
		lookback  string
		wantStart int64
		wantEnd   int64
		wantErr   bool
	}{
		{name: "default lookback", lookback: "24h", wantStart: 1700007200 - 86400, wantEnd: 1700007200},
		{name: "epoch bounds", from: "1700000000", to: "1700003600", lookback: "24h", wantStart: 1700000000, wantEnd: 1700003600},
		{name: "lookback from explicit end", to: "1700003600", lookback: "1h", wantStart: 1700000000, wantEnd: 1700003600},
		{name: "rfc3339", from: "2023-11-14T22:13:20Z", lookback: "24h", wantStart: 1700000000, wantEnd: 1700007200},
		{name: "date in display zone", from: "2023-11-14", to: "2023-11-15", lookback: "24h", wantStart: 1699920000, wantEnd: 1700006400},
		{name: "bad lookback", lookback: "soon", wantErr: true},
		{name: "bad from", from: "yesterday", lookback: "24h", wantErr: true},
		{name: "inverted", from: "1700003600", to: "1700000000", lookback: "24h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRangeFlags(t, tt.from, tt.to, tt.lookback)

			rng, err := queryRange(now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, rng.Start.Unix())
			assert.Equal(t, tt.wantEnd, rng.End.Unix())
			assert.Equal(t, 0, rng.End.Nanosecond())
		})
	}
}

func TestRootCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
		shorthand    string
	}{
		{"config", "", ""},
		{"dir", "", ""},
		{"apps", "", ""},
		{"from", "", ""},
		{"to", "", ""},
		{"duration", "24h", "d"},
		{"step", "0s", ""},
		{"output", "", "o"},
		{"timezone", "", ""},
		{"debug", "false", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, flag, "flag %s not found", tt.flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["watch"])
	assert.True(t, names["serve"])
	assert.True(t, names["files"])

	assert.NotNil(t, watchCmd.Flags().Lookup("debounce"))
	assert.NotNil(t, serveCmd.Flags().Lookup("listen"))
	assert.NotNil(t, serveCmd.Flags().Lookup("rate-limit"))
	assert.NotNil(t, serveCmd.Flags().Lookup("burst"))
}

func writeStore(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	dir := filepath.Join(root, "usage")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1699990000"),
		[]byte("1699990000:open:app.old\n1699990060:lock:\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1700000000"),
		[]byte("1700000000:open:app.browser\n1700000900:open:app.editor\n1700003600:lock:\n"), 0644))

	apps := filepath.Join(root, "apps")
	require.NoError(t, os.WriteFile(apps, []byte("app.browser:Browser\n"), 0644))
	return dir, apps
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRunQueryJSON(t *testing.T) {
	dir, apps := writeStore(t)

	out, err := execute(t,
		"--dir", dir, "--apps", apps,
		"--from", "1700000000", "--to", "1700003600",
		"--output", "json", "--timezone", "UTC")
	require.NoError(t, err)

	var events []model.TimelineEvent
	require.NoError(t, sonic.Unmarshal([]byte(out), &events))
	require.Len(t, events, 2)
	assert.Equal(t, model.AppEvent{App: "Browser", Duration: 15, Package: "app.browser"}, events[0].Data)
	assert.Equal(t, model.AppEvent{App: "app.editor", Duration: 45, Package: "app.editor"}, events[1].Data)
}

func TestRunQueryMissingAppsFile(t *testing.T) {
	dir, _ := writeStore(t)

	_, err := execute(t,
		"--dir", dir, "--apps", filepath.Join(t.TempDir(), "missing"),
		"--from", "1700000000", "--to", "1700003600",
		"--output", "json", "--timezone", "UTC")
	assert.Error(t, err)
}

func TestFilesCommand(t *testing.T) {
	dir, apps := writeStore(t)

	out, err := execute(t, "files",
		"--dir", dir, "--apps", apps,
		"--from", "1700000000", "--to", "1700003600",
		"--timezone", "UTC")
	require.NoError(t, err)

	assert.Contains(t, out, "2 files, 1 selected")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "1700000000 ") {
			assert.True(t, strings.HasPrefix(line, "*"), line)
		}
		if strings.Contains(line, "1699990000") {
			assert.True(t, strings.HasPrefix(line, " "), line)
		}
	}
}

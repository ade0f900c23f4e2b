package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/analyzer"
	"github.com/penwyp/go-usage-timeline/internal/config"
	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Configuration
	configFile string

	// Data paths
	dataDir  string
	appsFile string

	// Query range
	fromArg  string
	toArg    string
	duration string
	step     time.Duration

	// Output related
	outputFormat string
	timezone     string

	rootCmd = &cobra.Command{
		Use:   "usage-timeline [flags]",
		Short: "App focus usage timeline",
		Long: `usage-timeline reads the app focus log of a device and reports how long each
application was in the foreground, bucketed into fixed time windows.

The log directory holds one file per rotation, named by its start time in epoch
seconds. Each line is "timestamp:open:<package>" or "timestamp:lock:".

Examples:
  usage-timeline                                        # Last 24 hours in hourly buckets
  usage-timeline --dir /data/usage --apps /data/apps    # Explicit log and app name files
  usage-timeline --duration 7d --step 24h               # Daily buckets for the last week
  usage-timeline --from "2024-01-15" --to "2024-01-16"  # A fixed range in local time
  usage-timeline --from 1700000000 --to 1700003600      # Epoch seconds
  usage-timeline --output json                          # Timeline events as JSON
  usage-timeline --output summary --duration 1w         # Per-app totals for a week`,
		RunE:         runQuery,
		SilenceUsage: true,
	}
)

func init() {
	// Configuration file
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (default ./config.yaml or ~/.go-usage-timeline/config.yaml)")

	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "",
		"Usage log directory (overrides usage_files)")
	rootCmd.PersistentFlags().StringVar(&appsFile, "apps", "",
		"App name lookup file (overrides apps_file)")

	// Time range
	rootCmd.PersistentFlags().StringVar(&fromArg, "from", "",
		"Range start (epoch seconds, RFC3339, 2006-01-02 15:04 or 2006-01-02)")
	rootCmd.PersistentFlags().StringVar(&toArg, "to", "",
		"Range end (default now)")
	rootCmd.PersistentFlags().StringVarP(&duration, "duration", "d", "24h",
		"Time duration to look back when --from is not set (e.g., 12h, 7d, 2w, 1d12h)")
	rootCmd.PersistentFlags().DurationVar(&step, "step", 0,
		"Bucket width (overrides time_step, e.g. 15m, 1h, 24h)")

	// Output configuration
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "",
		"Output format (table, json, csv, summary)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Display timezone (e.g., Local, UTC, Asia/Shanghai)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	a, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	rng, err := queryRange(time.Now())
	if err != nil {
		return err
	}

	util.LogDebugf("Query %s with step %v from %s", rng, cfg.TimeStep, cfg.UsageFiles)
	return a.Run(cmd.Context(), rng, cmd.OutOrStdout())
}

func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration, applies flag overrides and initializes
// logging and the display timezone.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.UsageFiles = dataDir
	}
	if flags.Changed("apps") {
		cfg.AppsFile = appsFile
	}
	if flags.Changed("step") {
		cfg.TimeStep = step
	}
	if flags.Changed("output") {
		cfg.Output = outputFormat
	}
	if flags.Changed("timezone") {
		cfg.Timezone = timezone
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand paths
	cfg.UsageFiles = expandPath(cfg.UsageFiles)
	cfg.AppsFile = expandPath(cfg.AppsFile)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	// Initialize logging
	if err := ensureDir(filepath.Dir(cfg.Logging.File)); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(cfg.Logging.Level, cfg.Logging.File, debug, util.LogFormat(cfg.Logging.Format)); err != nil {
		return nil, err
	}

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAnalyzer(cfg *config.Config) (*analyzer.Analyzer, error) {
	return analyzer.New(&analyzer.Config{
		DataDir:      cfg.UsageFiles,
		AppsFile:     cfg.AppsFile,
		TimeStep:     cfg.TimeStep,
		CacheSize:    cfg.CacheSize,
		Ignore:       cfg.Ignore,
		OutputFormat: cfg.Output,
		Timezone:     cfg.Timezone,
	})
}

// queryRange resolves --from, --to and --duration against now. Bounds are
// truncated to whole seconds, the resolution of the usage log.
func queryRange(now time.Time) (model.TimeRange, error) {
	loc := util.GetTimeProvider().Location()

	end := now
	if toArg != "" {
		t, err := util.ParseTimeArg(toArg, loc)
		if err != nil {
			return model.TimeRange{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t
	}

	var start time.Time
	if fromArg != "" {
		t, err := util.ParseTimeArg(fromArg, loc)
		if err != nil {
			return model.TimeRange{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	} else {
		lookback, err := util.ParseLookback(duration)
		if err != nil {
			return model.TimeRange{}, fmt.Errorf("invalid --duration: %w", err)
		}
		start = end.Add(-lookback)
	}

	return model.NewTimeRange(start.Truncate(time.Second), end.Truncate(time.Second))
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

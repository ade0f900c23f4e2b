package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/analyzer"
	"github.com/penwyp/go-usage-timeline/internal/data/watcher"
	"github.com/penwyp/go-usage-timeline/internal/util"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the query whenever the usage log changes",
	Long: `Runs the query once, then watches the usage log directory and runs it again
after every burst of changes. Ranges given with --duration slide with the clock.`,
	RunE:         runWatch,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0,
		"Quiet period before re-running (overrides watch.debounce)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		cfg.Watch.Debounce = watchDebounce
	}

	a, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(cfg.UsageFiles, cfg.Ignore)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.UsageFiles, err)
	}
	defer fw.Close()

	out := cmd.OutOrStdout()
	render(ctx, a, out, "initial run")

	for batch := range watcher.Debounce(ctx, fw.Events(), cfg.Watch.Debounce) {
		util.LogDebugf("Usage log changed: %d events, last %s (%s)",
			len(batch), batch[len(batch)-1].Path, batch[len(batch)-1].Operation)
		render(ctx, a, out, fmt.Sprintf("%d changes", len(batch)))
	}
	return nil
}

// render runs one query. Errors are printed and the watch goes on.
func render(ctx context.Context, a *analyzer.Analyzer, out io.Writer, reason string) {
	now := time.Now()
	fmt.Fprintln(out, util.FormatSectionSeparator())
	fmt.Fprintf(out, "%s %s (%s)\n", util.FormatOverviewTitle("Updated"),
		util.GetTimeProvider().Format(now, "2006-01-02 15:04:05"), reason)

	rng, err := queryRange(now)
	if err == nil {
		err = a.Run(ctx, rng, out)
	}
	if err != nil {
		util.LogErrorf("Watch query failed: %v", err)
		fmt.Fprintln(out, util.FormatError("Error: "+err.Error()))
	}
}

package commands

import (
	"fmt"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/data/scanner"
	"github.com/penwyp/go-usage-timeline/internal/util"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:          "files",
	Short:        "Debug command to list log rotations and the ones a query reads",
	Long:         `Lists every usage log file with its start time and marks the files selected for the query range.`,
	Hidden:       true,
	RunE:         runFiles,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	s, err := scanner.NewLogScanner(cfg.UsageFiles, scanner.WithIgnorePatterns(cfg.Ignore))
	if err != nil {
		return err
	}

	rng, err := queryRange(time.Now())
	if err != nil {
		return err
	}

	all, err := s.List()
	if err != nil {
		return err
	}
	selected, err := s.Select(cmd.Context(), rng)
	if err != nil {
		return err
	}
	chosen := make(map[string]bool, len(selected))
	for _, f := range selected {
		chosen[f.Name] = true
	}

	tp := util.GetTimeProvider()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, util.FormatHeaderTitle("Usage log files in "+s.BaseDir()))
	fmt.Fprintf(out, "Range: %s to %s\n\n",
		tp.Format(rng.Start, "2006-01-02 15:04:05"), tp.Format(rng.End, "2006-01-02 15:04:05"))

	for _, f := range all {
		mark := " "
		if chosen[f.Name] {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s  %s\n", mark,
			util.PadString(f.Name, 12, true), tp.Format(f.Start, "2006-01-02 15:04:05"))
	}
	fmt.Fprintf(out, "\n%d files, %d selected\n", len(all), len(selected))
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chronofmt/chronofmt/pkg/scan"
	"github.com/chronofmt/chronofmt/pkg/tui"
	"github.com/chronofmt/chronofmt/pkg/watch"
)

// Scan flags
var (
	scanOutput   string
	scanWorkers  int
	scanFollow   bool
	scanProgress bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Normalize leading timestamps in a log file",
	Long: `Rewrite the leading timestamp of every line to a single layout,
detecting the source layout per line. Lines without a recognizable
timestamp pass through unchanged; output goes to stdout.

With --follow, chronofmt keeps watching the file and normalizes lines
as they are appended.

Examples:
  chronofmt scan access.log
  chronofmt scan --output mysql --workers 4 big.log
  chronofmt scan --follow app.log`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanOutput, "output", "", "target layout name (default from config)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "parallel workers (default from config)")
	scanCmd.Flags().BoolVar(&scanFollow, "follow", false, "keep watching the file for appended lines")
	scanCmd.Flags().BoolVar(&scanProgress, "progress", false, "show a progress bar")
}

func runScan(cmd *cobra.Command, args []string) error {
	cat, cfg, err := loadCatalog()
	if err != nil {
		return err
	}

	outName := cfg.Scan.Output
	if scanOutput != "" {
		outName = scanOutput
	}
	entry, ok := cat.Lookup(outName)
	if !ok {
		return fmt.Errorf("unknown output layout %q", outName)
	}
	if !entry.CanPrint {
		return fmt.Errorf("output layout %q is parse-only", outName)
	}

	workers := cfg.Scan.Workers
	if scanWorkers > 0 {
		workers = scanWorkers
	}

	scanner := scan.New(entry.Formatter, scan.WithCatalog(cat), scan.WithWorkers(workers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if scanFollow {
		return followFile(ctx, scanner, args[0])
	}

	stats, err := scanner.ScanFile(ctx, args[0], os.Stdout, scanProgress)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, tui.Success(fmt.Sprintf("%d lines, %d timestamps rewritten", stats.Lines, stats.Rewritten)))
	return nil
}

// followFile drains the existing content first, then normalizes lines
// as they arrive.
func followFile(ctx context.Context, scanner *scan.Scanner, path string) error {
	if _, err := scanner.ScanFile(ctx, path, os.Stdout, false); err != nil {
		return err
	}

	follower, err := watch.NewFollower(path)
	if err != nil {
		return err
	}
	follower.OnLine = func(line string) error {
		out, _ := scanner.Line(line)
		_, err := fmt.Println(out)
		return err
	}
	follower.OnError = func(err error) {
		fmt.Fprintln(os.Stderr, tui.Errorf("follow: %v", err))
	}

	err = follower.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

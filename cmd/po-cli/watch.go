package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/app"
	"github.com/joseph-ayodele/po-tracker/internal/ingest"
)

var (
	watchDirs        []string
	watchInitialScan bool
	watchDebounce    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch directories and register new documents as they arrive",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVarP(&watchDirs, "dir", "d", nil, "directory to watch (repeatable, required)")
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", true, "process files already present")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before a changed file is processed")
	_ = watchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ing := ingest.NewIngestor(a.Results, a.Processor, a.PurchaseOrders, logger)
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       watchDirs,
		InitialScan: watchInitialScan,
		SkipHidden:  true,
		Debounce:    watchDebounce,
	}, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch error", "error", err)
		case p, ok := <-paths:
			if !ok {
				return nil
			}
			handlePath(ctx, ing, p, out)
		}
	}
}

func handlePath(ctx context.Context, ing *ingest.Ingestor, path string, out io.Writer) {
	r, err := ing.IngestPath(ctx, path)
	switch {
	case err != nil:
		fmt.Fprintf(out, "FAIL  %s: %v\n", path, err)
	case r.Deduplicated:
		fmt.Fprintf(out, "DUP   %s (ocr %s)\n", path, r.OCRID)
	default:
		fmt.Fprintf(out, "OK    %s (ocr %s, po %s)\n", path, r.OCRID, r.POID)
	}
}

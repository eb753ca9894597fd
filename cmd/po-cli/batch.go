package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/app"
	"github.com/joseph-ayodele/po-tracker/internal/ingest"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

var (
	batchDir        string
	batchOut        string
	batchFrom       string
	batchTo         string
	batchSkipHidden bool
	batchNoRegister bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every document in a directory and export the orders",
	Long: `Walk --dir, OCR and extract each supported document, register the
resulting purchase orders and write them to an XLSX workbook.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "directory to process (required)")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output XLSX path (defaults to purchase_orders.xlsx next to --dir)")
	batchCmd.Flags().StringVar(&batchFrom, "from", "", "export orders acquired on or after YYYY-MM-DD")
	batchCmd.Flags().StringVar(&batchTo, "to", "", "export orders acquired on or before YYYY-MM-DD")
	batchCmd.Flags().BoolVar(&batchSkipHidden, "skip-hidden", true, "skip dot files and directories")
	batchCmd.Flags().BoolVar(&batchNoRegister, "no-register", false, "extract only; do not register or export")
	_ = batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

func exportFilter() (repository.ListFilter, error) {
	var f repository.ListFilter
	if batchFrom != "" {
		t, err := time.Parse(time.DateOnly, batchFrom)
		if err != nil {
			return f, fmt.Errorf("invalid --from date, use YYYY-MM-DD: %w", err)
		}
		f.From = t
	}
	if batchTo != "" {
		t, err := time.Parse(time.DateOnly, batchTo)
		if err != nil {
			return f, fmt.Errorf("invalid --to date, use YYYY-MM-DD: %w", err)
		}
		f.To = t.AddDate(0, 0, 1)
	}
	return f, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filter, err := exportFilter()
	if err != nil {
		return err
	}
	if batchOut == "" {
		batchOut = filepath.Join(filepath.Dir(filepath.Clean(batchDir)), "purchase_orders.xlsx")
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var registrar ingest.Registrar
	if !batchNoRegister {
		registrar = a.PurchaseOrders
	}
	ing := ingest.NewIngestor(a.Results, a.Processor, registrar, logger)

	results, stats, err := ing.IngestDirectory(ctx, batchDir, batchSkipHidden)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		switch {
		case r.Err != "":
			fmt.Fprintf(out, "FAIL  %s: %s\n", r.Path, r.Err)
		case r.Deduplicated:
			fmt.Fprintf(out, "DUP   %s (ocr %s)\n", r.Path, r.OCRID)
		default:
			fmt.Fprintf(out, "OK    %s (ocr %s)\n", r.Path, r.OCRID)
		}
	}
	fmt.Fprintf(out, "scanned=%d matched=%d succeeded=%d registered=%d deduplicated=%d failed=%d\n",
		stats.Scanned, stats.Matched, stats.Succeeded, stats.Registered, stats.Deduplicated, stats.Failed)

	if batchNoRegister {
		return nil
	}

	f, err := os.Create(batchOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", batchOut, err)
	}
	n, err := a.PurchaseOrders.Export(ctx, filter, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %d purchase orders to %s\n", n, batchOut)
	return nil
}

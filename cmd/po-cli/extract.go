package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/extraction"
	"github.com/joseph-ayodele/po-tracker/internal/ocr"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "OCR a document and print the extracted purchase order",
	Long:  "Extract a purchase order from a PDF, image or .txt file and print it as JSON. Nothing is stored.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Print the detected layout and per-format scores",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(classifyCmd)
}

// readText returns the OCR text for path. Plain text files are read as is.
func readText(cmd *cobra.Command, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	}
	res, err := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger).Extract(cmd.Context(), path)
	if err != nil {
		return "", err
	}
	for _, w := range res.Warnings {
		logger.Warn("ocr warning", "path", path, "warning", w)
	}
	return res.Text, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args[0])
	if err != nil {
		return err
	}
	engine, err := extraction.NewEngine(extraction.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := engine.Analyze(cmd.Context(), text)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runClassify(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args[0])
	if err != nil {
		return err
	}
	engine, err := extraction.NewEngine(extraction.WithLogger(logger))
	if err != nil {
		return err
	}
	v := engine.Classify(text)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "format:     %s\n", v.Format)
	fmt.Fprintf(out, "confidence: %.2f\n", v.Confidence)
	fmt.Fprintf(out, "routed to:  %s\n", engine.Route(v))

	scores := engine.Scores(text)
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "  %-10s %.2f\n", id, scores[extraction.FormatID(id)])
	}
	return nil
}

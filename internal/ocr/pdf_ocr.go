package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/po-tracker/constants"
)

func pageMarker(n int) string {
	return fmt.Sprintf("\n--- Page %d ---\n", n)
}

// extractPDF rasterizes and OCRs each page. When the OCR tools are missing or
// fail, the embedded text layer is read instead.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	res := Result{SourceType: constants.PDF, Language: e.cfg.TesseractLang}

	if e.available(e.cfg.Tesseract) && e.available(e.cfg.Pdftoppm) {
		text, pages, warns, err := e.pdfToOCR(ctx, path)
		res.Warnings = append(res.Warnings, warns...)
		if err == nil {
			text = Normalize(text)
			res.Text, res.Pages, res.Method = text, pages, "pdf-ocr"
			res.Confidence = heuristicConfidence(text)
			return res, nil
		}
		e.logger.Warn("ocr.pdf.fallback", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
	} else {
		res.Warnings = append(res.Warnings, "tesseract or pdftoppm not found; reading pdf text layer")
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	text, pages, err := pdfTextLayer(path, e.cfg.MaxPages)
	if err != nil {
		return res, fmt.Errorf("%w: pdf text layer: %v", ErrUnavailable, err)
	}
	text = Normalize(text)
	res.Text, res.Pages, res.Method = text, pages, "pdf-text"
	res.Language = ""
	res.Confidence = heuristicConfidence(text)
	return res, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "po-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("ocr.tmpdir.cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, fmt.Errorf("pdftoppm: %w", err)
	}

	// pdftoppm zero-pads page numbers, so lexical order is page order
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	for i, img := range matches {
		if e.cfg.Preprocess {
			if out, perr := preprocessImage(img, tmpDir); perr == nil {
				img = out
			} else {
				warnings = append(warnings, perr.Error())
			}
		}
		txt, w, terr := e.tesseractOCR(ctx, img)
		warnings = append(warnings, w...)
		if terr != nil {
			return "", 0, warnings, fmt.Errorf("page %d: %w", i+1, terr)
		}
		b.WriteString(pageMarker(i + 1))
		b.WriteString(txt)
	}
	return b.String(), len(matches), warnings, nil
}

// pdfTextLayer reads embedded text row by row.
func pdfTextLayer(path string, maxPages int) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	var b strings.Builder
	for i := 1; i <= n; i++ {
		b.WriteString(pageMarker(i))
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", i, err)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
	}
	return b.String(), n, nil
}

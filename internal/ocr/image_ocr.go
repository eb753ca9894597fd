package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/po-tracker/constants"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	res := Result{SourceType: constants.IMAGE, Language: e.cfg.TesseractLang}
	if !e.available(e.cfg.Tesseract) {
		return res, fmt.Errorf("%w: tesseract not found", ErrUnavailable)
	}

	src := path
	if e.cfg.Preprocess {
		tmpDir, err := os.MkdirTemp("", "po-img-*")
		if err != nil {
			return res, err
		}
		defer os.RemoveAll(tmpDir)
		if out, err := preprocessImage(path, tmpDir); err == nil {
			src = out
		} else {
			res.Warnings = append(res.Warnings, err.Error())
		}
	}

	txt, warn, err := e.tesseractOCR(ctx, src)
	res.Warnings = append(res.Warnings, warn...)
	if err != nil {
		return res, err
	}
	txt = Normalize(txt)

	var ocrConf float32
	if e.cfg.EnableTSVConfidence {
		if c, err2 := e.tesseractTSVConfidence(ctx, src); err2 == nil {
			ocrConf = c
		} else {
			res.Warnings = append(res.Warnings, err2.Error())
		}
	}
	res.Text = txt
	res.Pages = 1
	res.Method = "image-ocr"
	res.Confidence = blendConfidence(ocrConf, heuristicConfidence(txt))
	return res, nil
}

// preprocessImage writes a grayscale, contrast-boosted, sharpened copy of path into dir.
func preprocessImage(path, dir string) (string, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("preprocess open: %w", err)
	}
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)

	out := filepath.Join(dir, "pre_"+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".png")
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("preprocess save: %w", err)
	}
	return out, nil
}

func (e *Extractor) tesseractArgs(path string) []string {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return args
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.tesseractArgs(path)...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (e *Extractor) tesseractTSVConfidence(ctx context.Context, path string) (float32, error) {
	args := append(e.tesseractArgs(path), "tsv")
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w: %s", err, tail(string(errb), 512))
	}
	return meanTSVConfidence(string(out)), nil
}

// meanTSVConfidence averages the conf column, ignoring the header and -1 rows.
func meanTSVConfidence(tsv string) float32 {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := strings.TrimSpace(cols[10])
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float32(sum / n / 100.0)
}

package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// ErrUnavailable is returned when no OCR strategy can read the file.
var ErrUnavailable = errors.New("ocr unavailable")

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng+jpn"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir         string
	Preprocess          bool
	EnableTSVConfidence bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default
}

// ConfigFrom maps the application OCR settings.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Pdftoppm:            c.Pdftoppm,
		Tesseract:           c.Tesseract,
		TesseractLang:       c.TesseractLang,
		DPI:                 c.DPI,
		MaxPages:            c.MaxPages,
		TessdataDir:         c.TessdataDir,
		Preprocess:          c.Preprocess,
		EnableTSVConfidence: c.TSVConfidence,
	}
}

type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-ocr" | "pdf-text" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg      Config
	runner   Runner
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

type Option func(*Extractor)

// WithRunner replaces the command runner (tests stub tesseract and pdftoppm with it).
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithLookPath overrides how binaries are located on PATH.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(e *Extractor) { e.lookPath = fn }
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng+jpn"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	e := &Extractor{cfg: cfg, lookPath: exec.LookPath, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		e.runner = execRunner{logger: logger}
	}
	return e
}

func (e *Extractor) available(bin string) bool {
	_, err := e.lookPath(bin)
	return err == nil
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	log := common.LoggerFrom(ctx, e.logger)
	log.Debug("ocr.start", "path", path, "ext", ext)

	var (
		res Result
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
	default:
		log.Error("ocr.unsupported", "extension", ext)
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedMedia, ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		log.Error("ocr.failed", "path", path, "error", err, "warnings", res.Warnings)
		return res, err
	}
	log.Info("ocr.ok",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

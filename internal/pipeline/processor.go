package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/cache"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/extraction"
	"github.com/joseph-ayodele/po-tracker/internal/metrics"
	"github.com/joseph-ayodele/po-tracker/internal/ocr"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
	"github.com/joseph-ayodele/po-tracker/internal/tempfiles"
)

// TextExtractor reads text out of a document on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

// Analyzer turns OCR text into a cleaned record with stats.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (extraction.Result, error)
}

// Job is one uploaded document awaiting processing. The OCR row must exist.
type Job struct {
	OCRID       uuid.UUID
	Filename    string
	Data        []byte
	SubmittedAt time.Time
}

// ProcessedData is stored in ocr_result.processed_data once a job completes.
type ProcessedData struct {
	Data                extraction.Record  `json:"data"`
	Stats               extraction.Stats   `json:"stats"`
	Verdict             extraction.Verdict `json:"verdict"`
	OriginalFilename    string             `json:"original_filename"`
	TextContent         string             `json:"text_content"`
	ProcessingMethod    string             `json:"processing_method"`
	ProcessingTimestamp time.Time          `json:"processing_timestamp"`
}

// Processor runs temp staging, OCR (or a cache hit), extraction and persistence.
type Processor struct {
	logger   *slog.Logger
	ocr      TextExtractor
	engine   Analyzer
	temp     *tempfiles.Manager
	results  repository.OCRResultRepository
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

type Option func(*Processor)

func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(p *Processor) {
		p.cache = c
		p.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

func NewProcessor(
	logger *slog.Logger,
	textExtractor TextExtractor,
	engine Analyzer,
	temp *tempfiles.Manager,
	results repository.OCRResultRepository,
	opts ...Option,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:  logger,
		ocr:     textExtractor,
		engine:  engine,
		temp:    temp,
		results: results,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process completes or fails the job's OCR row. The staged file is removed
// either way.
func (p *Processor) Process(ctx context.Context, job Job) error {
	ctx = common.WithOCRID(ctx, job.OCRID.String())
	log := common.LoggerFrom(ctx, p.logger)

	if err := p.process(ctx, job); err != nil {
		log.Error("processor.failed", "filename", job.Filename, "error", err)
		// the job context may have expired; the failure must still be recorded
		if ferr := p.results.Fail(context.WithoutCancel(ctx), job.OCRID, err.Error()); ferr != nil {
			log.Error("processor.fail_status.failed", "error", ferr)
		}
		p.metrics.ObserveOCRJob(string(constants.OCRStatusFailed))
		return err
	}
	p.metrics.ObserveOCRJob(string(constants.OCRStatusCompleted))
	return nil
}

func (p *Processor) process(ctx context.Context, job Job) error {
	log := common.LoggerFrom(ctx, p.logger)

	text, method, err := p.ReadText(ctx, job.Filename, job.Data)
	if err != nil {
		return err
	}
	res, err := p.engine.Analyze(ctx, text)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	p.metrics.ObserveExtraction(string(res.Routed), res.Stats.QualityAssessment.Completeness)

	processed, err := json.Marshal(ProcessedData{
		Data:                res.Record,
		Stats:               res.Stats,
		Verdict:             res.Verdict,
		OriginalFilename:    job.Filename,
		TextContent:         text,
		ProcessingMethod:    method,
		ProcessingTimestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode processed data: %w", err)
	}
	if err := p.results.Complete(ctx, job.OCRID, text, processed); err != nil {
		return err
	}
	log.Info("processor.ok",
		"method", method,
		"format", res.Verdict.Format,
		"routed", res.Routed,
		"completeness", res.Stats.QualityAssessment.Completeness,
	)
	return nil
}

// ReadText stages data in the temp dir and returns its text, from the cache
// when the same bytes were read before. method is "cache" on a hit.
func (p *Processor) ReadText(ctx context.Context, filename string, data []byte) (text, method string, err error) {
	log := common.LoggerFrom(ctx, p.logger)

	path, err := p.temp.Save(filename, data)
	if err != nil {
		return "", "", err
	}
	defer p.temp.Remove(path)

	key := cache.Key(data)
	if p.cache != nil {
		b, cerr := p.cache.Get(ctx, key)
		switch {
		case cerr == nil:
			log.Debug("processor.cache.hit", "key", key)
			return string(b), "cache", nil
		case !errors.Is(cerr, cache.ErrCacheMiss):
			log.Warn("processor.cache.get_failed", "error", cerr)
		}
	}

	start := time.Now()
	res, err := p.ocr.Extract(ctx, path)
	p.metrics.ObserveOCRDuration(time.Since(start))
	if err != nil {
		return "", "", fmt.Errorf("ocr: %w", err)
	}

	if p.cache != nil && strings.TrimSpace(res.Text) != "" {
		if cerr := p.cache.Set(ctx, key, []byte(res.Text), p.cacheTTL); cerr != nil {
			log.Warn("processor.cache.set_failed", "error", cerr)
		}
	}
	return res.Text, res.Method, nil
}

package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// Engine runs classification, extraction and cleaning over OCR text.
// It keeps no per-call state, so one Engine serves concurrent callers.
type Engine struct {
	classifier *Classifier
	extractors map[FormatID]Extractor
	logger     *slog.Logger
}

type Option func(*Engine)

// WithExtractor registers or replaces the extractor used for a format.
func WithExtractor(id FormatID, ex Extractor) Option {
	return func(e *Engine) {
		if ex != nil {
			e.extractors[id] = ex
		}
	}
}

// WithClassifier swaps the classifier, e.g. one built from a custom signature table.
func WithClassifier(c *Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		extractors: DefaultExtractors(),
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.classifier == nil {
		c, err := NewClassifier()
		if err != nil {
			return nil, fmt.Errorf("load classifier: %w", err)
		}
		e.classifier = c
	}
	if _, ok := e.extractors[Generic]; !ok {
		return nil, fmt.Errorf("engine: no generic extractor registered")
	}
	return e, nil
}

// Classify returns the verdict for text after normalization.
func (e *Engine) Classify(text string) Verdict {
	return e.classifier.Identify(NormalizeText(text))
}

// Scores returns every known format's score for text after normalization.
func (e *Engine) Scores(text string) map[FormatID]float64 {
	return e.classifier.Scores(NormalizeText(text))
}

// Route picks the extractor key for a verdict. Named formats are used only
// when their score reaches SelectionThreshold and an extractor is registered.
func (e *Engine) Route(v Verdict) FormatID {
	if v.Confidence < SelectionThreshold {
		return Generic
	}
	if !isKnownFormat(v.Format) {
		return Generic
	}
	if _, ok := e.extractors[v.Format]; !ok {
		return Generic
	}
	return v.Format
}

// Extract returns the cleaned record for ocrText. The error is non-nil only
// when an extractor violated its contract.
func (e *Engine) Extract(ctx context.Context, ocrText string) (Record, error) {
	res, err := e.run(ctx, ocrText)
	if err != nil {
		return Record{}, err
	}
	return res.Record, nil
}

// Analyze runs Extract and also reports the verdict, quality and text statistics.
func (e *Engine) Analyze(ctx context.Context, ocrText string) (Result, error) {
	res, err := e.run(ctx, ocrText)
	if err != nil {
		return Result{}, err
	}
	res.Stats = BuildStats(ocrText, res.Verdict, Assess(res.Record))
	common.LoggerFrom(ctx, e.logger).DebugContext(ctx, "extract.quality",
		"format", res.Verdict.Format,
		"completeness", res.Stats.QualityAssessment.Completeness,
		"missing", strings.Join(res.Stats.QualityAssessment.MissingFields, ","),
	)
	return res, nil
}

func (e *Engine) run(ctx context.Context, ocrText string) (Result, error) {
	log := common.LoggerFrom(ctx, e.logger)
	text := NormalizeText(ocrText)
	verdict := e.classifier.Identify(text)
	target := e.Route(verdict)

	rec := e.extractors[target].Extract(text)
	if err := ValidateAndClean(&rec); err != nil {
		log.ErrorContext(ctx, "extract.invalid", "format", verdict.Format, "routed_to", target, "error", err)
		return Result{}, fmt.Errorf("extract with %s: %w", target, err)
	}

	log.DebugContext(ctx, "extract.ok",
		"format", verdict.Format,
		"confidence", verdict.Confidence,
		"routed_to", target,
		"products", len(rec.Products),
	)
	return Result{Record: rec, Verdict: verdict, Routed: target}, nil
}

// BuildStats summarizes one extraction. Every candidate key is present; only
// the verdict's format carries its score, so a rejected best score shows up
// under unknown.
func BuildStats(ocrText string, v Verdict, qa Assessment) Stats {
	candidates := make(map[FormatID]float64, len(AllCandidates))
	for _, id := range AllCandidates {
		candidates[id] = 0.0
	}
	candidates[v.Format] = v.Confidence
	return Stats{
		TextLength:        utf8.RuneCountInString(ocrText),
		WordCount:         len(strings.Fields(ocrText)),
		FormatCandidates:  candidates,
		QualityAssessment: qa,
	}
}

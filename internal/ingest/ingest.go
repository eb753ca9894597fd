// Package ingest feeds documents from disk into the processing pipeline and,
// optionally, registers each extracted purchase order.
package ingest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/extraction"
	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

// FileResult is the per-file ingest outcome.
type FileResult struct {
	Path         string
	OCRID        uuid.UUID
	POID         uuid.UUID
	Deduplicated bool
	HashHex      string
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Registered   uint32
	Deduplicated uint32
	Failed       uint32
}

type Processor interface {
	Process(ctx context.Context, job pipeline.Job) error
}

type Registrar interface {
	RegisterRecord(ctx context.Context, rec extraction.Record, sourceOCRID *uuid.UUID) (uuid.UUID, error)
}

// Ingestor runs files through Processor synchronously. Identical bytes are
// processed once per Ingestor.
type Ingestor struct {
	results   repository.OCRResultRepository
	proc      Processor
	registrar Registrar
	maxBytes  int64
	logger    *slog.Logger

	mu   sync.Mutex
	seen map[string]uuid.UUID
}

// NewIngestor builds an Ingestor. registrar may be nil to only extract.
func NewIngestor(results repository.OCRResultRepository, proc Processor, registrar Registrar, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		results:   results,
		proc:      proc,
		registrar: registrar,
		maxBytes:  constants.MaxUploadBytes,
		logger:    logger,
		seen:      make(map[string]uuid.UUID),
	}
}

func (i *Ingestor) lookup(hash string) (uuid.UUID, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	id, ok := i.seen[hash]
	return id, ok
}

func (i *Ingestor) remember(hash string, id uuid.UUID) {
	i.mu.Lock()
	i.seen[hash] = id
	i.mu.Unlock()
}

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/cache"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
)

// IngestPath processes one file. A duplicate of an earlier file is reported
// with Deduplicated set and the earlier OCR id.
func (i *Ingestor) IngestPath(ctx context.Context, path string) (FileResult, error) {
	res := FileResult{Path: path}
	log := i.logger.With("path", path)

	if !constants.IsAllowedExt(filepath.Ext(path)) {
		return res, fmt.Errorf("%w: %s", common.ErrUnsupportedMedia, filepath.Ext(path))
	}
	data, err := i.readFile(path)
	if err != nil {
		return res, err
	}
	res.HashHex = cache.Key(data)

	if prev, dup := i.lookup(res.HashHex); dup {
		log.Info("ingest.dedup", "ocr_id", prev)
		res.OCRID = prev
		res.Deduplicated = true
		return res, nil
	}

	row, err := i.results.Create(ctx, filepath.Base(path))
	if err != nil {
		return res, err
	}
	i.remember(res.HashHex, row.ID)
	res.OCRID = row.ID

	job := pipeline.Job{OCRID: row.ID, Filename: filepath.Base(path), Data: data, SubmittedAt: time.Now().UTC()}
	if err := i.proc.Process(ctx, job); err != nil {
		return res, err
	}
	log.Info("ingest.processed", "ocr_id", row.ID)

	if i.registrar == nil {
		return res, nil
	}
	done, err := i.results.Get(ctx, row.ID)
	if err != nil {
		return res, err
	}
	var pd pipeline.ProcessedData
	if err := json.Unmarshal(done.ProcessedData, &pd); err != nil {
		return res, fmt.Errorf("decode processed data: %w", err)
	}
	poID, err := i.registrar.RegisterRecord(ctx, pd.Data, &row.ID)
	if err != nil {
		return res, fmt.Errorf("register: %w", err)
	}
	res.POID = poID
	log.Info("ingest.registered", "po_id", poID)
	return res, nil
}

func (i *Ingestor) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, i.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > i.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", common.ErrTooLarge, path, i.maxBytes)
	}
	return data, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	entschema "github.com/joseph-ayodele/po-tracker/db/ent/schema"
	"github.com/joseph-ayodele/po-tracker/db/ent/schema/utils"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

var validOCRStatus = utils.EnumValidator(constants.OCRStatuses...)

type OCRResultRepository interface {
	Create(ctx context.Context, filename string) (*entity.OCRResult, error)
	Complete(ctx context.Context, id uuid.UUID, text string, processed json.RawMessage) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
	Get(ctx context.Context, id uuid.UUID) (*entity.OCRResult, error)
}

type ocrResultRepo struct {
	db  *DB
	log *slog.Logger
}

func NewOCRResultRepository(db *DB, log *slog.Logger) OCRResultRepository {
	if log == nil {
		log = slog.Default()
	}
	return &ocrResultRepo{db: db, log: log}
}

// Create inserts a row in the processing state.
func (r *ocrResultRepo) Create(ctx context.Context, filename string) (*entity.OCRResult, error) {
	now := time.Now().UTC()
	row := &entity.OCRResult{
		ID:               uuid.New(),
		OriginalFilename: filename,
		Status:           string(constants.OCRStatusProcessing),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	q, args := r.db.builder().Insert(entschema.TableOCRResult).
		Columns("id", "original_filename", "status", "created_at", "updated_at").
		Values(row.ID, row.OriginalFilename, row.Status, row.CreatedAt, row.UpdatedAt).
		Query()
	if _, err := r.db.SQL.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("ocr_result create failed", "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: create ocr_result: %v", common.ErrDatabase, err)
	}
	r.log.Info("ocr_result created", "ocr_id", row.ID, "filename", filename)
	return row, nil
}

func (r *ocrResultRepo) Complete(ctx context.Context, id uuid.UUID, text string, processed json.RawMessage) error {
	upd := r.db.builder().Update(entschema.TableOCRResult).
		Set("status", string(constants.OCRStatusCompleted)).
		Set("text_content", text).
		Set("processed_data", string(processed)).
		SetNull("error_message")
	if err := r.finish(ctx, id, constants.OCRStatusCompleted, upd); err != nil {
		return err
	}
	r.log.Info("ocr_result completed", "ocr_id", id, "text_chars", len(text))
	return nil
}

// Fail marks the job failed. The message is also kept in processed_data as {"error": msg}.
func (r *ocrResultRepo) Fail(ctx context.Context, id uuid.UUID, message string) error {
	data, _ := json.Marshal(map[string]string{"error": message})
	upd := r.db.builder().Update(entschema.TableOCRResult).
		Set("status", string(constants.OCRStatusFailed)).
		Set("error_message", message).
		Set("processed_data", string(data))
	if err := r.finish(ctx, id, constants.OCRStatusFailed, upd); err != nil {
		return err
	}
	r.log.Warn("ocr_result failed", "ocr_id", id, "error", message)
	return nil
}

func (r *ocrResultRepo) finish(ctx context.Context, id uuid.UUID, status constants.OCRStatus, upd *entsql.UpdateBuilder) error {
	if err := validOCRStatus(string(status)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	q, args := upd.Set("updated_at", time.Now().UTC()).Where(entsql.EQ("id", id)).Query()
	res, err := r.db.SQL.ExecContext(ctx, q, args...)
	if err != nil {
		r.log.Error("ocr_result update failed", "ocr_id", id, "status", status, "error", err)
		return fmt.Errorf("%w: update ocr_result: %v", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("ocr_result %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *ocrResultRepo) Get(ctx context.Context, id uuid.UUID) (*entity.OCRResult, error) {
	b := r.db.builder()
	q, args := b.Select("id", "original_filename", "status", "text_content", "processed_data", "error_message", "created_at", "updated_at").
		From(b.Table(entschema.TableOCRResult)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		row       entity.OCRResult
		text, msg sql.NullString
		data      []byte
	)
	err := r.db.SQL.QueryRowContext(ctx, q, args...).Scan(
		&row.ID, &row.OriginalFilename, &row.Status, &text, &data, &msg, &row.CreatedAt, &row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ocr_result %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("ocr_result get failed", "ocr_id", id, "error", err)
		return nil, fmt.Errorf("%w: get ocr_result: %v", common.ErrDatabase, err)
	}
	row.TextContent = text.String
	row.ErrorMessage = msg.String
	if len(data) > 0 {
		row.ProcessedData = json.RawMessage(data)
	}
	return &row, nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
)

// multipart headers and boundaries on top of the file itself
const multipartOverhead = 1 << 20

type uploadResponse struct {
	OCRID    string `json:"ocrId"`
	Filename string `json:"filename"`
}

type statusResponse struct {
	Status string `json:"status"`
	OCRID  string `json:"ocrId"`
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := common.LoggerFrom(ctx, s.logger)

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.failErr(w, r, fmt.Errorf("%w: limit is %d bytes", common.ErrTooLarge, s.opts.MaxUploadBytes))
			return
		}
		fail(w, r, http.StatusBadRequest, "expected a multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, r, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if header.Filename == "" || name == "." || name == string(filepath.Separator) {
		fail(w, r, http.StatusBadRequest, "file name is required")
		return
	}
	if !constants.IsAllowedExt(filepath.Ext(name)) {
		s.failErr(w, r, fmt.Errorf("%w: %q", common.ErrUnsupportedMedia, filepath.Ext(name)))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes+1))
	if err != nil {
		s.failErr(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		s.failErr(w, r, fmt.Errorf("%w: limit is %d bytes", common.ErrTooLarge, s.opts.MaxUploadBytes))
		return
	}
	if len(data) == 0 {
		fail(w, r, http.StatusBadRequest, "file is empty")
		return
	}

	row, err := s.deps.Results.Create(ctx, name)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	job := pipeline.Job{OCRID: row.ID, Filename: name, Data: data, SubmittedAt: time.Now().UTC()}
	if err := s.deps.Queue.Enqueue(ctx, job); err != nil {
		log.Error("ocr.upload.enqueue_failed", "ocr_id", row.ID, "error", err)
		_ = s.deps.Results.Fail(ctx, row.ID, "not queued: "+err.Error())
		s.failErr(w, r, err)
		return
	}

	log.Info("ocr.upload.accepted", "ocr_id", row.ID, "filename", name, "bytes", len(data))
	ok(w, r, "file uploaded; OCR processing started", uploadResponse{OCRID: row.ID.String(), Filename: name})
}

func (s *Server) ocrStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ocrID"))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "invalid OCR id")
		return
	}
	row, err := s.deps.Results.Get(r.Context(), id)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	ok(w, r, "", statusResponse{Status: row.Status, OCRID: row.ID.String()})
}

func (s *Server) ocrExtract(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ocrID"))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "invalid OCR id")
		return
	}
	row, err := s.deps.Results.Get(r.Context(), id)
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	switch constants.OCRStatus(row.Status) {
	case constants.OCRStatusCompleted:
	case constants.OCRStatusFailed:
		respond(w, r, http.StatusUnprocessableEntity, Response{
			Status:  StatusError,
			Message: row.ErrorMessage,
			Data:    statusResponse{Status: row.Status, OCRID: row.ID.String()},
		})
		return
	default:
		respond(w, r, http.StatusAccepted, Response{
			Status:  StatusProcessing,
			Message: common.ErrNotReady.Error(),
			Data:    statusResponse{Status: row.Status, OCRID: row.ID.String()},
		})
		return
	}

	var pd pipeline.ProcessedData
	if err := json.Unmarshal(row.ProcessedData, &pd); err != nil {
		s.failErr(w, r, fmt.Errorf("decode processed data: %w", err))
		return
	}
	ok(w, r, "", pd.Data)
}

package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/po?sslmode=disable")
	t.Setenv("QUEUE_WORKERS", "9")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OCR_DPI", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "postgres://u:p@localhost:5432/po?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, 9, cfg.Queue.Workers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "eng+jpn", cfg.OCR.TesseractLang)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{HTTPAddr: ":8000"}, Upload: UploadConfig{MaxBytes: 1}, Queue: QueueConfig{Workers: 1}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)

	cfg.Database.InMemory = true
	assert.NoError(t, cfg.Validate())
}

func TestValidator(t *testing.T) {
	t.Parallel()
	v := NewValidator().
		Field("customer", "  ", Required).
		Field("currency", "usd", CurrencyCode).
		Field("date", "2024-02-30", DateYMD).
		Field("po", "PO-1", Required, MaxLength(3)).
		Field("id", "not-a-uuid", UUID).
		Field("ok", "fine", Required, MaxLength(10))

	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 5)
	assert.ErrorIs(t, v.Err(), ErrValidation)

	st, ok := status.FromError(ValidateAndReturnError(v))
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())

	assert.NoError(t, NewValidator().Field("x", "y", Required).Err())
}

func TestGRPCError(t *testing.T) {
	t.Parallel()
	assert.Nil(t, GRPCError(nil))
	assert.Equal(t, codes.NotFound, status.Code(GRPCError(WrapError(ErrNotFound, "get po"))))
	assert.Equal(t, codes.InvalidArgument, status.Code(GRPCError(NewAppError("BAD", "x", ErrValidation))))
	assert.Equal(t, codes.Internal, status.Code(GRPCError(errors.New("boom"))))
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "debug", Format: "json"}, &buf)

	ctx := WithOCRID(WithRequestID(context.Background(), "req-1"), "ocr-9")
	LoggerFrom(ctx, logger).Debug("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "ocr-9", line["ocr_id"])
	assert.Equal(t, "hello", line["msg"])
}

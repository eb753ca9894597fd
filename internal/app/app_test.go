package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-tracker/internal/cache"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

func TestNewInMemory(t *testing.T) {
	cfg := &common.Config{
		Database: common.DatabaseConfig{InMemory: true},
		TempDir:  common.TempDirConfig{Dir: t.TempDir()},
		OCR:      common.OCRConfig{Tesseract: "tesseract-missing", Pdftoppm: "pdftoppm-missing"},
	}
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &cache.MemoryCache{}, a.Cache)
	assert.NotNil(t, a.Processor)
	assert.NotNil(t, a.PurchaseOrders)
	for _, st := range repository.MigrationStatus(context.Background(), a.DB) {
		assert.True(t, st.Exists, st.Table)
	}
}

func TestOpenCacheFallsBackToMemory(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := openCache(context.Background(), common.CacheConfig{RedisURL: "not a url"}, logger)
	assert.IsType(t, &cache.MemoryCache{}, c)
}

package extraction

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	return e
}

func TestEngineExtractKnownFormats(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Extract(ctx, buyersInfoText)
	require.NoError(t, err)
	assert.Equal(t, "7,850.00", rec.TotalAmount)
	assert.Equal(t, "500", rec.Products[0].Quantity)
	assert.Equal(t, "6,250.00", rec.Products[0].Amount)

	rec, err = e.Extract(ctx, orderConfirmationText)
	require.NoError(t, err)
	assert.Equal(t, "117,900.00", rec.TotalAmount)
	assert.Equal(t, "20", rec.Products[0].Quantity)
	assert.Equal(t, "15.5", rec.Products[1].Quantity)
}

func TestEngineAnalyzeNoAnchors(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	res, err := e.Analyze(context.Background(), noAnchorsText)
	require.NoError(t, err)

	assert.Equal(t, Verdict{Format: Unknown, Confidence: 0}, res.Verdict)
	assert.Equal(t, Generic, res.Routed)
	assert.Empty(t, res.Record.Customer)
	assert.Empty(t, res.Record.PONumber)
	assert.Empty(t, res.Record.TotalAmount)
	assert.Equal(t, []LineItem{{Name: SentinelProductName}}, res.Record.Products)

	qa := res.Stats.QualityAssessment
	assert.Zero(t, qa.Completeness)
	assert.Zero(t, qa.Confidence)
	assert.Equal(t, RecommendationLow, qa.Recommendation)
	assert.Equal(t, []string{"customer", "poNumber", "totalAmount", "products"}, qa.MissingFields)
}

func TestEngineAnalyzeCompleteRecord(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	res, err := e.Analyze(context.Background(), looseText)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", res.Record.Customer)
	assert.Equal(t, "PO-100", res.Record.PONumber)
	assert.Equal(t, "500.00", res.Record.TotalAmount)
	assert.Equal(t, 1.0, res.Stats.QualityAssessment.Completeness)
	assert.Equal(t, 1.0, res.Stats.QualityAssessment.Confidence)
	assert.Equal(t, RecommendationGood, res.Stats.QualityAssessment.Recommendation)
}

func TestEngineStats(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	res, err := e.Analyze(context.Background(), purchaseOrderText)
	require.NoError(t, err)

	st := res.Stats
	assert.Equal(t, len([]rune(purchaseOrderText)), st.TextLength)
	assert.Positive(t, st.WordCount)
	require.Len(t, st.FormatCandidates, 4)
	for _, id := range AllCandidates {
		_, ok := st.FormatCandidates[id]
		assert.True(t, ok, id)
	}
	assert.Equal(t, 1.0, st.FormatCandidates[Format2])
	assert.Zero(t, st.FormatCandidates[Format1]+st.FormatCandidates[Format3]+st.FormatCandidates[Unknown])
}

func TestBuildStatsCountsRunes(t *testing.T) {
	t.Parallel()
	st := BuildStats("発注書 PO 1", Verdict{Format: Unknown}, Assessment{})
	assert.Equal(t, 8, st.TextLength)
	assert.Equal(t, 3, st.WordCount)
}

func TestEngineBelowThresholdRoutesToGeneric(t *testing.T) {
	t.Parallel()
	var namedCalled, genericCalled bool
	e := newTestEngine(t,
		WithExtractor(Format2, ExtractorFunc(func(string) Record {
			namedCalled = true
			return newRecord()
		})),
		WithExtractor(Generic, ExtractorFunc(func(string) Record {
			genericCalled = true
			return newRecord()
		})),
	)

	res, err := e.Analyze(context.Background(), "PURCHASE ORDER")
	require.NoError(t, err)
	assert.False(t, namedCalled)
	assert.True(t, genericCalled)
	assert.Equal(t, Generic, res.Routed)

	assert.Equal(t, Generic, e.Route(Verdict{Format: Format2, Confidence: 0.39}))
	assert.Equal(t, Format2, e.Route(Verdict{Format: Format2, Confidence: SelectionThreshold}))
	assert.Equal(t, Generic, e.Route(Verdict{Format: Unknown, Confidence: 0.9}))
}

func TestEngineSurfacesBrokenExtractor(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithExtractor(Generic, ExtractorFunc(func(string) Record {
		return Record{} // nil products
	})))

	_, err := e.Extract(context.Background(), noAnchorsText)
	assert.ErrorIs(t, err, common.ErrInvariant)
}

func TestEngineIdempotentAndConcurrent(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	want, err := e.Analyze(ctx, purchaseOrderText)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Analyze(ctx, purchaseOrderText)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEngineProductsNeverEmpty(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	for _, in := range []string{"", " ", noAnchorsText, "Description Quantity Unit Price Amount", looseText} {
		rec, err := e.Extract(context.Background(), in)
		require.NoError(t, err)
		assert.NotEmpty(t, rec.Products, in)
	}
}

func TestBuildStatsRejectedScoreUnderUnknown(t *testing.T) {
	t.Parallel()
	st := BuildStats("PURCHASE ORDER", Verdict{Format: Unknown, Confidence: 0.3}, Assessment{})
	assert.Equal(t, map[FormatID]float64{Format1: 0, Format2: 0, Format3: 0, Unknown: 0.3}, st.FormatCandidates)
}

func TestEngineLogsCarryRequestID(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := newTestEngine(t, WithLogger(logger))

	ctx := common.WithRequestID(context.Background(), "req-42")
	_, err := e.Analyze(ctx, looseText)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"extract.ok"`)
	assert.Contains(t, out, `"msg":"extract.quality"`)
	assert.Contains(t, out, `"request_id":"req-42"`)
}

package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
)

type recordingHandler struct {
	mu   sync.Mutex
	seen []uuid.UUID
	fail bool
	hold chan struct{}
}

func (h *recordingHandler) Process(ctx context.Context, job pipeline.Job) error {
	if h.hold != nil {
		select {
		case <-h.hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	h.mu.Lock()
	h.seen = append(h.seen, job.OCRID)
	h.mu.Unlock()
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

func TestQueueDrainsOnShutdown(t *testing.T) {
	t.Parallel()
	h := &recordingHandler{}
	q := NewProcessorQueue(h, nil, WithWorkers(3), WithQueueSize(16))

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(context.Background(), pipeline.Job{OCRID: uuid.New()}))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.seen, 10)
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	t.Parallel()
	q := NewProcessorQueue(&recordingHandler{}, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background()) // idempotent

	err := q.Enqueue(context.Background(), pipeline.Job{OCRID: uuid.New()})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueueBackpressureHonoursContext(t *testing.T) {
	t.Parallel()
	h := &recordingHandler{hold: make(chan struct{})}
	q := NewProcessorQueue(h, nil, WithWorkers(1), WithQueueSize(1))

	// one job held by the worker, one buffered
	require.NoError(t, q.Enqueue(context.Background(), pipeline.Job{OCRID: uuid.New()}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), pipeline.Job{OCRID: uuid.New()}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, pipeline.Job{OCRID: uuid.New()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(h.hold)
	q.Shutdown(context.Background())
	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.seen, 2)
}

func TestQueueAppliesTimeoutAndSurvivesFailures(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	h := handlerFunc(func(ctx context.Context, _ pipeline.Job) error {
		calls.Add(1)
		<-ctx.Done()
		return ctx.Err()
	})
	q := NewProcessorQueue(h, nil, WithWorkers(1), WithProcessTimeout(20*time.Millisecond))
	require.NoError(t, q.Enqueue(context.Background(), pipeline.Job{OCRID: uuid.New()}))
	require.NoError(t, q.Enqueue(context.Background(), pipeline.Job{OCRID: uuid.New()}))
	q.Shutdown(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

type handlerFunc func(context.Context, pipeline.Job) error

func (f handlerFunc) Process(ctx context.Context, job pipeline.Job) error { return f(ctx, job) }

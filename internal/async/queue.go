package async

import (
	"context"
	"errors"

	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
)

// ErrClosed is returned by Enqueue once Shutdown has begun.
var ErrClosed = errors.New("queue is shutting down")

type Queue interface {
	Enqueue(ctx context.Context, job pipeline.Job) error
	Shutdown(ctx context.Context)
}

// Handler processes one job; *pipeline.Processor satisfies it.
type Handler interface {
	Process(ctx context.Context, job pipeline.Job) error
}

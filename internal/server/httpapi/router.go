// Package httpapi is the REST surface: document upload and polling, synchronous
// text extraction, and PO registration and export.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
	"github.com/joseph-ayodele/po-tracker/internal/extraction"
	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

type JobQueue interface {
	Enqueue(ctx context.Context, job pipeline.Job) error
}

type Analyzer interface {
	Analyze(ctx context.Context, text string) (extraction.Result, error)
}

type PurchaseOrders interface {
	Register(ctx context.Context, payload []byte) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	Export(ctx context.Context, f repository.ListFilter, w io.Writer) (int, error)
}

// Deps are the collaborators the handlers call into. Metrics may be nil.
type Deps struct {
	Results        repository.OCRResultRepository
	Queue          JobQueue
	Engine         Analyzer
	PurchaseOrders PurchaseOrders
	Health         func(ctx context.Context) error
	Metrics        http.Handler
}

type Options struct {
	MaxUploadBytes int64
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Server struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

func NewServer(deps Deps, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = constants.MaxUploadBytes
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	return &Server{deps: deps, opts: opts, logger: logger}
}

// Router builds the chi mux with middleware and every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Route("/ocr", func(r chi.Router) {
			r.Post("/upload", s.upload)
			r.Get("/status/{ocrID}", s.ocrStatus)
			r.Get("/extract/{ocrID}", s.ocrExtract)
		})
		r.Post("/extract", s.extractText)

		r.Route("/po", func(r chi.Router) {
			r.Post("/register", s.registerPO)
			r.Get("/export.xlsx", s.exportPOs)
			r.Get("/{poID}", s.getPO)
		})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health(r.Context()); err != nil {
			respond(w, r, http.StatusServiceUnavailable, Response{
				Status:  StatusError,
				Message: "database unavailable",
				Data:    map[string]string{"database": "down"},
			})
			return
		}
	}
	ok(w, r, "", map[string]any{"database": "up", "time": time.Now().UTC()})
}

// Package grpcapi exposes the extraction engine over gRPC for services that
// already hold OCR text.
package grpcapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/extraction"
)

type Engine interface {
	Analyze(ctx context.Context, text string) (extraction.Result, error)
	Classify(text string) extraction.Verdict
	Scores(text string) map[extraction.FormatID]float64
}

type ExtractionService struct {
	engine Engine
	logger *slog.Logger
}

func NewExtractionService(engine Engine, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionService{engine: engine, logger: logger}
}

// Extract takes {text} and returns {record, verdict, routedTo, stats}.
func (s *ExtractionService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text, err := textField(req)
	if err != nil {
		s.logger.Error("extract request missing text")
		return nil, err
	}
	res, err := s.engine.Analyze(ctx, text)
	if err != nil {
		s.logger.Error("extract failed", "error", err)
		return nil, common.GRPCError(err)
	}
	s.logger.Info("extract ok", "format", res.Verdict.Format, "routed", res.Routed,
		"completeness", res.Stats.QualityAssessment.Completeness)

	return toStruct(map[string]any{
		"record":   res.Record,
		"verdict":  res.Verdict,
		"routedTo": res.Routed,
		"stats":    res.Stats,
	})
}

// Classify takes {text} and returns {format, confidence, scores}.
func (s *ExtractionService) Classify(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text, err := textField(req)
	if err != nil {
		s.logger.Error("classify request missing text")
		return nil, err
	}
	v := s.engine.Classify(text)
	return toStruct(map[string]any{
		"format":     v.Format,
		"confidence": v.Confidence,
		"scores":     s.engine.Scores(text),
	})
}

func textField(req *structpb.Struct) (string, error) {
	text := req.GetFields()["text"].GetStringValue()
	if err := common.ValidateAndReturnError(common.NewValidator().Field("text", text, common.Required)); err != nil {
		return "", err
	}
	return text, nil
}

// toStruct round-trips v through JSON so the struct tags shape the response.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

// LoggingInterceptor logs each unary call with its status code.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc.request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

// NewServer builds a gRPC server with the extraction, health and reflection services.
func NewServer(engine Engine, logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(LoggingInterceptor(logger))}, opts...)
	srv := grpc.NewServer(opts...)

	RegisterExtractionServer(srv, NewExtractionService(engine, logger))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Reflection for grpcurl
	reflection.Register(srv)
	return srv, hs
}

var _ ExtractionServer = (*ExtractionService)(nil)

package grpcapi

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/po-tracker/internal/extraction"
)

const orderText = `PURCHASE ORDER
Vendor: Sakura Trading Co., Ltd.
P.O. Number: PO-88231
Date: 2024-03-14

Bill To:
Northwind Traders LLC
1200 Harbor Blvd, Oakland, CA

Ship To: Oakland Distribution Center
Terms: Net 45
Ship Via: Ocean Freight

Item  Description        Qty       Unit Price   Total
1     Matcha Latte Mix   120 pcs   $4.50        $540.00
2     Sencha Tea Bags    300 pcs   $2.00        $600.00

Subtotal: $1,140.00
Tax: $0.00
Total: $1,140.00
`

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	engine, err := extraction.NewEngine()
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv, _ := NewServer(engine, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestExtractOverGRPC(t *testing.T) {
	t.Parallel()
	client := NewExtractionClient(dial(t))

	req, err := structpb.NewStruct(map[string]any{"text": orderText})
	require.NoError(t, err)
	out, err := client.Extract(context.Background(), req)
	require.NoError(t, err)

	m := out.AsMap()
	record := m["record"].(map[string]any)
	assert.Equal(t, "Northwind Traders LLC", record["customer"])
	assert.Equal(t, "PO-88231", record["poNumber"])
	verdict := m["verdict"].(map[string]any)
	assert.Equal(t, string(extraction.Format2), verdict["format"])
	stats := m["stats"].(map[string]any)
	assert.Len(t, stats["formatCandidates"], 4)
}

func TestClassifyOverGRPC(t *testing.T) {
	t.Parallel()
	client := NewExtractionClient(dial(t))

	req, _ := structpb.NewStruct(map[string]any{"text": "The quick brown fox"})
	out, err := client.Classify(context.Background(), req)
	require.NoError(t, err)
	m := out.AsMap()
	assert.Equal(t, string(extraction.Unknown), m["format"])
	assert.Equal(t, 0.0, m["confidence"])
	assert.Len(t, m["scores"], 3)
}

func TestMissingTextIsInvalidArgument(t *testing.T) {
	t.Parallel()
	client := NewExtractionClient(dial(t))

	_, err := client.Extract(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = client.Classify(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealthServing(t *testing.T) {
	t.Parallel()
	conn := dial(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

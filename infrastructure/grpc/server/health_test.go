package server

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startHealthServer(t *testing.T) (*HealthServer, grpc_health_v1.HealthClient) {
	t.Helper()
	listener := bufconn.Listen(1024 * 1024)
	s := NewHealthServer(logs.GetLoggerFromLevel(slog.LevelDebug))
	go func() { _ = s.Serve(listener) }()
	t.Cleanup(func() { s.server.Stop() })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return s, grpc_health_v1.NewHealthClient(conn)
}

func TestHealthServer_ReportsServing(t *testing.T) {
	req := require.New(t)
	// Given a running health server
	_, client := startHealthServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// When the overall and the named entries are checked
	overall, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	req.NoError(err)
	named, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	req.NoError(err)

	// Then both are serving
	req.Equal(grpc_health_v1.HealthCheckResponse_SERVING, overall.Status)
	req.Equal(grpc_health_v1.HealthCheckResponse_SERVING, named.Status)
}

func TestHealthServer_NotServingAfterShutdown(t *testing.T) {
	req := require.New(t)
	// Given a running health server
	s, client := startHealthServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// When it is flipped to not serving
	s.SetServing(false)

	// Then checks report NOT_SERVING
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	req.NoError(err)
	req.Equal(grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)

	// And resuming restores SERVING
	s.SetServing(true)
	resp, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	req.NoError(err)
	req.Equal(grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}

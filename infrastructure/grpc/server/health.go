// Package server exposes the operational gRPC surface: health checks and reflection.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health entry reported for the realtime backend.
const ServiceName = "social.Realtime"

type HealthServer struct {
	log    *slog.Logger
	server *grpc.Server
	health *health.Server
}

func NewHealthServer(log *slog.Logger) *HealthServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(log),
		))
	h := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, h)
	reflection.Register(s)
	h.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return &HealthServer{log: log, server: s, health: h}
}

// Serve blocks until the listener fails or Stop is called.
func (s *HealthServer) Serve(listener net.Listener) error {
	for serviceName := range s.server.GetServiceInfo() {
		s.log.Debug("gRPC exposed service", "name", serviceName)
	}
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// SetServing flips every health entry, including the overall "" one.
func (s *HealthServer) SetServing(serving bool) {
	if serving {
		s.health.Resume()
		return
	}
	s.health.Shutdown()
}

// Stop reports NOT_SERVING to watchers first, then drains in-flight calls.
func (s *HealthServer) Stop(ctx context.Context) {
	s.SetServing(false)
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("gRPC graceful stop timed out, forcing")
		s.server.Stop()
	}
}

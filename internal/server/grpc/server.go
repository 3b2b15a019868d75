// Package grpc runs the operational gRPC endpoint: the standard health
// service, guarded by a logging and metrics interceptor.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/shopfront/internal/logging"
	"github.com/dmitrijs2005/shopfront/internal/server/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the shop reports under in the health service,
// next to the empty overall name.
const ServiceName = "shopfront"

type GRPCServer struct {
	address string
	logger  logging.Logger
	metrics *metrics.Metrics
	health  *health.Server
}

// NewGRPCServer creates the ops server. It reports NOT_SERVING until
// SetServing(true) is called.
func NewGRPCServer(a string, l logging.Logger, m *metrics.Metrics) *GRPCServer {
	s := &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		metrics: m,
		health:  health.NewServer(),
	}
	s.SetServing(false)
	return s
}

// SetServing flips the reported health status.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	// registers service
	healthpb.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// loggingInterceptor logs every unary call with its status code and
// duration and counts it in the metrics.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}

	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "grpc call failed", append(args, "error", err)...)
	} else {
		s.logger.Info(ctx, "grpc call", args...)
	}

	if s.metrics != nil {
		s.metrics.ObserveGRPC(info.FullMethod, code.String())
	}

	return resp, err
}

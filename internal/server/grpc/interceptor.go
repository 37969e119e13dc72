package grpc

import (
	"context"
	"crypto/subtle"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/metrics"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// adminTokenInterceptor requires the admin token in the admin_token metadata
// key on every method except Ping.
func (s *GRPCServer) adminTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if info.FullMethod == pb.AdminService_Ping_FullMethodName {
		return handler(ctx, req)
	}

	if s.adminToken == "" {
		return nil, status.Error(codes.PermissionDenied, "admin access is not configured")
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AdminTokenHeaderName)
		if len(values) > 0 {
			token = values[0]
		}
	}
	if len(token) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing admin token")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		return nil, status.Error(codes.Unauthenticated, "invalid admin token")
	}

	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	metrics.GRPCRequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	return resp, err
}

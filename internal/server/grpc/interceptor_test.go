package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newInterceptorServer(token string) *GRPCServer {
	return &GRPCServer{logger: nopLogger{}, adminToken: token}
}

func okHandler(called *bool) grpc.UnaryHandler {
	return func(ctx context.Context, req any) (any, error) {
		*called = true
		return "ok", nil
	}
}

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AdminTokenHeaderName, token))
}

func TestInterceptor_PingNeedsNoToken(t *testing.T) {
	s := newInterceptorServer("adm")

	called := false
	info := &grpc.UnaryServerInfo{FullMethod: pb.AdminService_Ping_FullMethodName}

	resp, err := s.adminTokenInterceptor(context.Background(), nil, info, okHandler(&called))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || resp != "ok" {
		t.Fatalf("handler not called or unexpected resp: %v", resp)
	}
}

func TestInterceptor_AdminMethods(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		ctx        context.Context
		wantCode   codes.Code
	}{
		{"valid token", "adm", withToken("adm"), codes.OK},
		{"missing token", "adm", context.Background(), codes.Unauthenticated},
		{"wrong token", "adm", withToken("nope"), codes.Unauthenticated},
		{"not configured", "", withToken(""), codes.PermissionDenied},
	}

	info := &grpc.UnaryServerInfo{FullMethod: pb.AdminService_Shuffle_FullMethodName}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newInterceptorServer(tt.configured)
			called := false

			_, err := s.adminTokenInterceptor(tt.ctx, nil, info, okHandler(&called))
			if got := status.Code(err); got != tt.wantCode {
				t.Fatalf("code = %v, want %v", got, tt.wantCode)
			}
			if called != (tt.wantCode == codes.OK) {
				t.Fatalf("handler called = %v", called)
			}
		})
	}
}

func TestMetricsInterceptor_PassesThrough(t *testing.T) {
	s := newInterceptorServer("adm")
	info := &grpc.UnaryServerInfo{FullMethod: pb.AdminService_ListUsers_FullMethodName}

	wantErr := status.Error(codes.NotFound, "x")
	_, err := s.metricsInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, wantErr
	})
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

// Package grpc serves the admin RPC service used by santactl.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/secretsanta/internal/logging"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"github.com/dmitrijs2005/secretsanta/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	pb.UnimplementedAdminServiceServer
	address    string
	admin      *services.AdminService
	logger     logging.Logger
	adminToken string
}

func NewGRPCServer(a string, l logging.Logger, as *services.AdminService, adminToken string) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		admin:      as,
		adminToken: adminToken,
	}
}

// NewServer creates the grpc.Server with the admin service and its
// interceptors registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.adminTokenInterceptor))
	pb.RegisterAdminServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AdminServiceClient
	adminToken  string
}

var _ Client = (*GRPCClient)(nil)

func withAdminToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AdminTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) adminTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.adminToken != "" {
		ctx = withAdminToken(ctx, s.adminToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAdminClient dials the admin service at endpointURL. The connection is
// established lazily on the first call.
func NewAdminClient(endpointURL, adminToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, adminToken: adminToken}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(extra ...grpc.DialOption) error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.adminTokenInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.endpointURL, err)
	}
	s.conn = conn
	s.client = pb.NewAdminServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	var out pb.PingResponse
	if err := pb.Decode(resp, &out); err != nil {
		return err
	}
	if out.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) InitUsers(ctx context.Context, users []pb.NewUser) (*pb.InitUsersResponse, error) {
	req, err := pb.Encode(pb.InitUsersRequest{Users: users})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.InitUsers(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	out := &pb.InitUsersResponse{}
	if err := pb.Decode(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GRPCClient) Shuffle(ctx context.Context) (*pb.ShuffleResponse, error) {
	resp, err := s.client.Shuffle(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := &pb.ShuffleResponse{}
	if err := pb.Decode(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]pb.User, error) {
	resp, err := s.client.ListUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out pb.ListUsersResponse
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (s *GRPCClient) ClearAssignments(ctx context.Context) error {
	if _, err := s.client.ClearAssignments(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ClearMessages(ctx context.Context) (int64, error) {
	resp, err := s.client.ClearMessages(ctx, &emptypb.Empty{})
	if err != nil {
		return 0, s.mapError(err)
	}

	var out pb.ClearMessagesResponse
	if err := pb.Decode(resp, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

func (s *GRPCClient) ListArchives(ctx context.Context) ([]pb.Archive, error) {
	resp, err := s.client.ListArchives(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out pb.ListArchivesResponse
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Archives, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

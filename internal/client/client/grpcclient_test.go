package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	lastInitUsersReq *structpb.Struct

	pingResp *structpb.Struct
	pingErr  error

	initUsersResp *structpb.Struct
	initUsersErr  error

	shuffleResp *structpb.Struct
	shuffleErr  error

	listUsersResp *structpb.Struct
	listUsersErr  error

	clearAssignmentsErr error

	clearMessagesResp *structpb.Struct
	clearMessagesErr  error

	listArchivesResp *structpb.Struct
	listArchivesErr  error
}

func (f *fakePB) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.pingResp, f.pingErr
}
func (f *fakePB) InitUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastInitUsersReq = in
	return f.initUsersResp, f.initUsersErr
}
func (f *fakePB) Shuffle(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.shuffleResp, f.shuffleErr
}
func (f *fakePB) ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.listUsersResp, f.listUsersErr
}
func (f *fakePB) ClearAssignments(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return &structpb.Struct{}, f.clearAssignmentsErr
}
func (f *fakePB) ClearMessages(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.clearMessagesResp, f.clearMessagesErr
}
func (f *fakePB) ListArchives(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.listArchivesResp, f.listArchivesErr
}

func mustEncode(t *testing.T, v any) *structpb.Struct {
	t.Helper()
	s, err := pb.Encode(v)
	require.NoError(t, err)
	return s
}

/*************
 * adminTokenInterceptor tests
 *************/

func TestInterceptor_AttachesAdminToken(t *testing.T) {
	c := &GRPCClient{adminToken: "T1"}

	called := false
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		called = true
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AdminTokenHeaderName)
		require.Len(t, toks, 1)
		require.Equal(t, "T1", toks[0])
		return nil
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AdminTokenHeaderName, "stale")
	require.NoError(t, c.adminTokenInterceptor(ctx, "/svc/Method", nil, nil, nil, invoker))
	require.True(t, called)
}

func TestInterceptor_NoTokenNoMetadata(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AdminTokenHeaderName))
		return nil
	}
	require.NoError(t, c.adminTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.ErrorIs(t, c.mapError(status.Error(codes.Unauthenticated, "x")), ErrUnauthorized)
	require.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "x")), ErrUnauthorized)
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))

	rejected := c.mapError(status.Error(codes.InvalidArgument, "need at least 2 users to shuffle"))
	require.ErrorIs(t, rejected, ErrRejected)
	require.ErrorContains(t, rejected, "need at least 2 users to shuffle")

	e := errors.New("plain")
	require.ErrorContains(t, c.mapError(e), "rpc error:")
	require.NoError(t, c.mapError(nil))
}

/*************
 * Method tests
 *************/

func TestPing(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		c := &GRPCClient{client: &fakePB{pingResp: mustEncode(t, pb.PingResponse{Status: "OK"})}}
		require.NoError(t, c.Ping(context.Background()))
	})
	t.Run("not OK", func(t *testing.T) {
		c := &GRPCClient{client: &fakePB{pingResp: mustEncode(t, pb.PingResponse{Status: "DEGRADED"})}}
		require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
	})
	t.Run("rpc error", func(t *testing.T) {
		c := &GRPCClient{client: &fakePB{pingErr: status.Error(codes.Unavailable, "down")}}
		require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
	})
}

func TestInitUsers(t *testing.T) {
	f := &fakePB{initUsersResp: mustEncode(t, pb.InitUsersResponse{
		Created: []pb.UserRef{{ID: "1", Name: "alice"}},
		Errors:  []pb.UserError{{Name: "bob", Error: "User already exists"}},
	})}
	c := &GRPCClient{client: f}

	out, err := c.InitUsers(context.Background(), []pb.NewUser{{Name: "alice", SecretKey: "k"}, {Name: "bob"}})
	require.NoError(t, err)
	assert.Equal(t, []pb.UserRef{{ID: "1", Name: "alice"}}, out.Created)
	assert.Equal(t, "User already exists", out.Errors[0].Error)

	var sent pb.InitUsersRequest
	require.NoError(t, pb.Decode(f.lastInitUsersReq, &sent))
	assert.Equal(t, []pb.NewUser{{Name: "alice", SecretKey: "k"}, {Name: "bob"}}, sent.Users)
}

func TestShuffle(t *testing.T) {
	f := &fakePB{shuffleResp: mustEncode(t, pb.ShuffleResponse{
		Assignments: []pb.Pair{{Name: "a", AssignedTo: "b"}, {Name: "b", AssignedTo: "a"}},
		Fallback:    true,
	})}
	c := &GRPCClient{client: f}

	out, err := c.Shuffle(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Len(t, out.Assignments, 2)

	f.shuffleErr = status.Error(codes.InvalidArgument, "need at least 2 users to shuffle")
	_, err = c.Shuffle(context.Background())
	require.ErrorIs(t, err, ErrRejected)
}

func TestListUsersAndClear(t *testing.T) {
	f := &fakePB{
		listUsersResp:     mustEncode(t, pb.ListUsersResponse{Users: []pb.User{{ID: "1", Name: "alice", HasKey: true}}}),
		clearMessagesResp: mustEncode(t, pb.ClearMessagesResponse{Deleted: 7}),
		listArchivesResp:  mustEncode(t, pb.ListArchivesResponse{Archives: []pb.Archive{{Key: "shuffles/x.json", URL: "http://s3/x"}}}),
	}
	c := &GRPCClient{client: f}
	ctx := context.Background()

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", users[0].Name)
	assert.True(t, users[0].HasKey)

	require.NoError(t, c.ClearAssignments(ctx))

	n, err := c.ClearMessages(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	archives, err := c.ListArchives(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shuffles/x.json", archives[0].Key)

	f.clearAssignmentsErr = status.Error(codes.Unauthenticated, "invalid admin token")
	require.ErrorIs(t, c.ClearAssignments(ctx), ErrUnauthorized)
}

/*************
 * End-to-end over bufconn
 *************/

type tokenEchoServer struct {
	pb.UnimplementedAdminServiceServer
}

func (tokenEchoServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.AdminTokenHeaderName); len(v) == 1 && v[0] == "secret" {
		return pb.Encode(pb.PingResponse{Status: "OK"})
	}
	return nil, status.Error(codes.Unauthenticated, "invalid admin token")
}

func TestNewAdminClient_SendsTokenOverTheWire(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	pb.RegisterAdminServiceServer(srv, tokenEchoServer{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})

	c, err := NewAdminClient("passthrough:///bufnet", "secret", dialer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(context.Background()))

	bad, err := NewAdminClient("passthrough:///bufnet", "wrong", dialer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bad.Close() })
	require.ErrorIs(t, bad.Ping(context.Background()), ErrUnauthorized)
}
